package api

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/trimdeck/trimdeck-agent/internal/config"
	"github.com/trimdeck/trimdeck-agent/internal/library"
)

func NewRouter(cfg ServerConfig) *chi.Mux {
	if cfg.Mu == nil {
		cfg.Mu = &sync.Mutex{}
	}

	r := chi.NewRouter()

	r.Use(RequestIDMiddleware())
	r.Use(RecoveryMiddleware(cfg.Logger))
	r.Use(LoggingMiddleware(cfg.Logger))

	r.Get("/health", healthHandler(cfg))

	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(cfg.Repository, cfg.Logger))

		r.Get("/status", statusHandler(cfg))

		r.Route("/sequence", func(r chi.Router) {
			r.Get("/", getSequenceHandler(cfg))
			r.Post("/clips", addClipHandler(cfg))
			r.Delete("/clips/{index}", removeClipHandler(cfg))
			r.Post("/clips/{index}/move", moveClipHandler(cfg))
			r.Post("/clips/{index}/select", selectClipHandler(cfg))
			r.Put("/clips/{index}/title", setClipTitleHandler(cfg))
			r.Delete("/selected", removeSelectedHandler(cfg))
			r.Post("/select-all", selectAllHandler(cfg))
			r.Post("/deselect-all", deselectAllHandler(cfg))
			r.Post("/clear", clearSequenceHandler(cfg))
			r.Post("/export", exportSequenceHandler(cfg))
		})

		r.Route("/queue", func(r chi.Router) {
			r.Get("/", getQueueHandler(cfg))
			r.Post("/items", addQueueItemsHandler(cfg))
			r.Delete("/items", removeQueueItemHandler(cfg))
			r.Post("/clear", clearQueueHandler(cfg))
			r.Put("/current", setQueueCurrentHandler(cfg))
			r.Put("/mode", setQueueModeHandler(cfg))
			r.Post("/next", queueNextHandler(cfg))
			r.Post("/previous", queuePreviousHandler(cfg))
			r.Post("/play", queuePlayHandler(cfg))
			r.Post("/pause", queuePauseHandler(cfg))
			r.Post("/stop", queueStopHandler(cfg))
			r.Post("/complete", queueCompleteHandler(cfg))
		})

		r.Get("/sources", listSourcesHandler(cfg))
		r.Post("/sources/folders", addFolderHandler(cfg))
		r.Delete("/sources/{id}", deleteSourceHandler(cfg))
		r.Get("/sources/{id}/files", listFilesHandler(cfg))
		r.Post("/scan", scanHandler(cfg))
		r.Get("/jobs", listJobsHandler(cfg))
		r.Get("/jobs/{id}", getJobHandler(cfg))
		r.Get("/stream", streamHandler(cfg))
	})

	return r
}

func healthHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uptime := int64(time.Since(cfg.StartTime).Seconds())
		WriteJSON(w, http.StatusOK, HealthResponse{
			Status:   "ok",
			Version:  config.Version,
			UptimeS:  uptime,
			DeviceID: cfg.DeviceID,
		})
	}
}

func statusHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		sources, _ := cfg.LibraryService.GetSources(ctx)
		filesCount, _ := cfg.LibraryService.CountFiles(ctx)
		jobs, _ := cfg.Repository.ListJobs(ctx, 10)

		var activeJob *JobResponse
		jobsRunning := 0
		lastError := ""

		for _, j := range jobs {
			if j.Status == library.JobStatusRunning {
				resp := JobToResponse(j)
				activeJob = &resp
				jobsRunning++
			}
			if j.Status == library.JobStatusFailed && lastError == "" {
				lastError = j.Error
			}
		}

		cfg.Mu.Lock()
		resp := StatusResponse{
			QueueState:    cfg.Queue.State().String(),
			QueueMode:     cfg.Queue.Mode().String(),
			QueueLen:      cfg.Queue.Len(),
			ClipCount:     cfg.Sequence.Count(),
			SelectedCount: cfg.Sequence.SelectedCount(),
			SourcesCount:  len(sources),
			FilesCount:    filesCount,
			JobsRunning:   jobsRunning,
			LastError:     lastError,
			ActiveJob:     activeJob,
		}
		cfg.Mu.Unlock()

		if cfg.Runner != nil {
			resp.IndexPaused = cfg.Runner.IsPaused()
		}

		WriteJSON(w, http.StatusOK, resp)
	}
}

func listSourcesHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sources, err := cfg.LibraryService.GetSources(r.Context())
		if err != nil {
			WriteError(w, http.StatusInternalServerError, "failed to list sources", "INTERNAL_ERROR")
			return
		}

		resp := SourcesResponse{Sources: make([]SourceResponse, len(sources))}
		for i, s := range sources {
			resp.Sources[i] = SourceToResponse(s)
		}
		WriteJSON(w, http.StatusOK, resp)
	}
}

func addFolderHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req AddFolderRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}

		if req.Path == "" {
			WriteError(w, http.StatusBadRequest, "path is required", "BAD_REQUEST")
			return
		}

		source, err := cfg.LibraryService.AddFolder(r.Context(), req.Path, req.DisplayName)
		if err != nil {
			WriteError(w, http.StatusBadRequest, err.Error(), "BAD_REQUEST")
			return
		}

		WriteJSON(w, http.StatusCreated, AddFolderResponse{SourceID: source.ID})
	}
}

func deleteSourceHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if id == "" {
			WriteError(w, http.StatusBadRequest, "source id required", "BAD_REQUEST")
			return
		}

		if err := cfg.LibraryService.RemoveSource(r.Context(), id); err != nil {
			WriteError(w, http.StatusInternalServerError, err.Error(), "INTERNAL_ERROR")
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func listFilesHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sourceID := chi.URLParam(r, "id")
		if sourceID == "" {
			WriteError(w, http.StatusBadRequest, "source id required", "BAD_REQUEST")
			return
		}

		files, err := cfg.LibraryService.GetFiles(r.Context(), sourceID)
		if err != nil {
			WriteError(w, http.StatusInternalServerError, err.Error(), "INTERNAL_ERROR")
			return
		}

		resp := FilesResponse{Files: make([]FileResponse, len(files))}
		for i, f := range files {
			resp.Files[i] = FileToResponse(f)
		}
		WriteJSON(w, http.StatusOK, resp)
	}
}

func scanHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ScanRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}

		if req.SourceID == "" {
			sources, err := cfg.LibraryService.GetSources(r.Context())
			if err != nil {
				WriteError(w, http.StatusInternalServerError, err.Error(), "INTERNAL_ERROR")
				return
			}
			if len(sources) == 0 {
				WriteError(w, http.StatusBadRequest, "no sources configured", "BAD_REQUEST")
				return
			}
			req.SourceID = sources[0].ID
		}

		job, err := cfg.LibraryService.ScanSource(r.Context(), req.SourceID)
		if err != nil {
			WriteError(w, http.StatusBadRequest, err.Error(), "BAD_REQUEST")
			return
		}

		WriteJSON(w, http.StatusAccepted, ScanResponse{JobID: job.ID})
	}
}

func listJobsHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		jobs, err := cfg.Repository.ListJobs(r.Context(), 50)
		if err != nil {
			WriteError(w, http.StatusInternalServerError, "failed to list jobs", "INTERNAL_ERROR")
			return
		}

		resp := JobsResponse{Jobs: make([]JobResponse, len(jobs))}
		for i, j := range jobs {
			resp.Jobs[i] = JobToResponse(j)
		}
		WriteJSON(w, http.StatusOK, resp)
	}
}

func getJobHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if id == "" {
			WriteError(w, http.StatusBadRequest, "job id required", "BAD_REQUEST")
			return
		}

		job, err := cfg.Repository.GetJob(r.Context(), id)
		if err != nil {
			WriteError(w, http.StatusInternalServerError, err.Error(), "INTERNAL_ERROR")
			return
		}
		if job == nil {
			WriteError(w, http.StatusNotFound, "job not found", "NOT_FOUND")
			return
		}

		WriteJSON(w, http.StatusOK, JobToResponse(job))
	}
}

func streamHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fileID := r.URL.Query().Get("file_id")
		if fileID == "" {
			WriteError(w, http.StatusBadRequest, "file_id is required", "BAD_REQUEST")
			return
		}

		file, err := cfg.LibraryService.GetFile(r.Context(), fileID)
		if err != nil {
			WriteError(w, http.StatusInternalServerError, err.Error(), "INTERNAL_ERROR")
			return
		}
		if file == nil {
			WriteError(w, http.StatusNotFound, "file not found", "NOT_FOUND")
			return
		}

		if err := cfg.Stream.ServeFile(w, r, file.Path); err != nil {
			cfg.Logger.Error("stream error", "error", err, "file_id", fileID)
		}
	}
}
