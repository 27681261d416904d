package server

import (
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"
	"github.com/nulzo/inference-gateway/internal/gateway"
	"github.com/nulzo/inference-gateway/internal/jobs"
	v1 "github.com/nulzo/inference-gateway/internal/server/v1"
)

func (s *Server) SetupRoutes() {
	health := v1.NewHealthHandler()
	s.router.GET("/health", health.Health)

	api := s.router.Group(s.config.Server.BasePath)
	{
		inference := v1.NewInferenceHandler(s.deps.Service)
		postOnly(api, "/inference", gateway.InferenceExample, inference.Infer)
		postOnly(api, "/chat/completions", gateway.InferenceExample, inference.Infer)
		postOnly(api, "/completions", gateway.InferenceExample, inference.Infer)
		postOnly(api, "/model-inference", gateway.InferenceExample, inference.ModelInference)

		speech := v1.NewSpeechHandler(s.deps.Service)
		postOnly(api, "/audio/speech", gateway.SpeechExample, speech.Create)

		models := v1.NewModelHandler(s.deps.Catalog)
		api.GET("/models", models.List)

		j := v1.NewJobHandler(s.deps.Jobs)

		batch := api.Group("/batch")
		batch.GET("", j.ListBatches)
		batch.POST("", j.CreateBatch)
		batch.GET("/:id", j.GetBatch)
		batch.DELETE("/:id", j.CancelBatch)
		rejectOthers(batch, "", jobs.BatchExample, http.MethodGet, http.MethodPost)
		rejectOthers(batch, "/:id", jobs.BatchExample, http.MethodGet, http.MethodDelete)

		training := api.Group("/training/jobs")
		training.GET("", j.ListTraining)
		training.POST("", j.CreateTraining)
		training.GET("/:id", j.GetTraining)
		training.DELETE("/:id", j.CancelTraining)
		rejectOthers(training, "", jobs.TrainingExample, http.MethodGet, http.MethodPost)
		rejectOthers(training, "/:id", jobs.TrainingExample, http.MethodGet, http.MethodDelete)
	}
}

// unrouted is every method a route can be rejected on. OPTIONS never reaches
// a handler.
var unrouted = []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete}

func postOnly(r gin.IRoutes, path string, example interface{}, h gin.HandlerFunc) {
	r.POST(path, h)
	rejectOthers(r, path, example, http.MethodPost)
}

// rejectOthers registers a 405 handler on path for every method not in allowed.
func rejectOthers(r gin.IRoutes, path string, example interface{}, allowed ...string) {
	reject := v1.MethodNotAllowed(example, allowed...)
	for _, m := range unrouted {
		if !slices.Contains(allowed, m) {
			r.Handle(m, path, reject)
		}
	}
}
