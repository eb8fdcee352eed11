package api

import (
	"encoding/json"
	"net/http"

	"github.com/trimdeck/trimdeck-agent/internal/playback"
)

func getQueueHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cfg.Mu.Lock()
		resp := QueueToResponse(cfg.Queue)
		cfg.Mu.Unlock()
		WriteJSON(w, http.StatusOK, resp)
	}
}

func addQueueItemsHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req AddQueueItemsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}
		if len(req.Items) == 0 {
			WriteError(w, http.StatusBadRequest, "items must not be empty", "BAD_REQUEST")
			return
		}

		items := make([]*playback.Item, 0, len(req.Items))
		for _, it := range req.Items {
			path := it.Path
			title := it.Title
			durationMs := it.DurationMs

			if it.FileID != "" {
				file, err := cfg.LibraryService.GetFile(r.Context(), it.FileID)
				if err != nil {
					WriteError(w, http.StatusInternalServerError, err.Error(), "INTERNAL_ERROR")
					return
				}
				if file == nil {
					WriteError(w, http.StatusNotFound, "file not found: "+it.FileID, "NOT_FOUND")
					return
				}
				path = file.Path
				if title == "" {
					title = file.Filename
				}
				if durationMs == 0 {
					durationMs = file.DurationMs
				}
			}

			if path == "" {
				WriteError(w, http.StatusBadRequest, "path or file_id is required", "BAD_REQUEST")
				return
			}

			items = append(items, &playback.Item{Path: path, Title: title, DurationMs: durationMs})
		}

		cfg.Mu.Lock()
		cfg.Queue.AddAll(items)
		resp := QueueToResponse(cfg.Queue)
		cfg.Mu.Unlock()

		WriteJSON(w, http.StatusCreated, resp)
	}
}

func removeQueueItemHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RemoveQueueItemRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}
		if req.Path == "" {
			WriteError(w, http.StatusBadRequest, "path is required", "BAD_REQUEST")
			return
		}

		cfg.Mu.Lock()
		removed := cfg.Queue.Remove(&playback.Item{Path: req.Path})
		resp := QueueToResponse(cfg.Queue)
		cfg.Mu.Unlock()

		if !removed {
			WriteError(w, http.StatusNotFound, "item not found", "NOT_FOUND")
			return
		}
		WriteJSON(w, http.StatusOK, resp)
	}
}

func clearQueueHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cfg.Mu.Lock()
		cfg.Queue.Clear()
		cfg.Mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	}
}

func setQueueCurrentHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SetCurrentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}

		cfg.Mu.Lock()
		ok := cfg.Queue.SetCurrentIndex(req.Index)
		resp := QueueToResponse(cfg.Queue)
		cfg.Mu.Unlock()

		if !ok {
			WriteError(w, http.StatusBadRequest, "index out of range", "BAD_REQUEST")
			return
		}
		WriteJSON(w, http.StatusOK, resp)
	}
}

func setQueueModeHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SetModeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}

		mode, ok := playback.ParseMode(req.Mode)
		if !ok {
			WriteError(w, http.StatusBadRequest, "unknown mode: "+req.Mode, "BAD_REQUEST")
			return
		}

		cfg.Mu.Lock()
		cfg.Queue.SetMode(mode)
		resp := QueueToResponse(cfg.Queue)
		cfg.Mu.Unlock()

		WriteJSON(w, http.StatusOK, resp)
	}
}

func queueNextHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cfg.Mu.Lock()
		moved := cfg.Queue.PlayNext()
		resp := QueueToResponse(cfg.Queue)
		cfg.Mu.Unlock()

		if !moved {
			WriteError(w, http.StatusConflict, "no next item", "NO_NEXT")
			return
		}
		WriteJSON(w, http.StatusOK, resp)
	}
}

func queuePreviousHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cfg.Mu.Lock()
		moved := cfg.Queue.PlayPrevious()
		resp := QueueToResponse(cfg.Queue)
		cfg.Mu.Unlock()

		if !moved {
			WriteError(w, http.StatusConflict, "no previous item", "NO_PREVIOUS")
			return
		}
		WriteJSON(w, http.StatusOK, resp)
	}
}

func queuePlayHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cfg.Mu.Lock()
		started := cfg.Queue.Start()
		resp := QueueToResponse(cfg.Queue)
		cfg.Mu.Unlock()

		if !started {
			WriteError(w, http.StatusConflict, "queue is empty", "EMPTY_QUEUE")
			return
		}
		WriteJSON(w, http.StatusOK, resp)
	}
}

func queuePauseHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cfg.Mu.Lock()
		paused := cfg.Queue.Pause()
		resp := QueueToResponse(cfg.Queue)
		cfg.Mu.Unlock()

		if !paused {
			WriteError(w, http.StatusConflict, "queue is not playing", "NOT_PLAYING")
			return
		}
		WriteJSON(w, http.StatusOK, resp)
	}
}

func queueStopHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cfg.Mu.Lock()
		cfg.Queue.Stop()
		resp := QueueToResponse(cfg.Queue)
		cfg.Mu.Unlock()
		WriteJSON(w, http.StatusOK, resp)
	}
}

func queueCompleteHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cfg.Mu.Lock()
		cfg.Queue.Complete()
		resp := QueueToResponse(cfg.Queue)
		cfg.Mu.Unlock()
		WriteJSON(w, http.StatusOK, resp)
	}
}
