package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/trimdeck/trimdeck-agent/internal/sequence"
)

func getSequenceHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cfg.Mu.Lock()
		resp := SequenceToResponse(cfg.Sequence)
		cfg.Mu.Unlock()
		WriteJSON(w, http.StatusOK, resp)
	}
}

func addClipHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req AddClipRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}

		sourcePath := req.SourcePath
		if req.FileID != "" {
			file, err := cfg.LibraryService.GetFile(r.Context(), req.FileID)
			if err != nil {
				WriteError(w, http.StatusInternalServerError, err.Error(), "INTERNAL_ERROR")
				return
			}
			if file == nil {
				WriteError(w, http.StatusNotFound, "file not found", "NOT_FOUND")
				return
			}
			sourcePath = file.Path
		}

		cfg.Mu.Lock()
		clip, err := cfg.Sequence.TryAdd(req.Name, req.StartMs, req.EndMs, sourcePath)
		if err != nil {
			cfg.Mu.Unlock()
			WriteError(w, http.StatusBadRequest, err.Error(), "VALIDATION_ERROR")
			return
		}
		resp := ClipToResponse(clip, cfg.Sequence.Count()-1)
		cfg.Mu.Unlock()

		WriteJSON(w, http.StatusCreated, resp)
	}
}

func removeClipHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cfg.Mu.Lock()
		defer cfg.Mu.Unlock()

		clip, ok := clipAtParam(cfg, r)
		if !ok {
			WriteError(w, http.StatusNotFound, "clip not found", "NOT_FOUND")
			return
		}

		cfg.Sequence.Remove(clip)
		w.WriteHeader(http.StatusNoContent)
	}
}

func moveClipHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req MoveClipRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}

		cfg.Mu.Lock()
		defer cfg.Mu.Unlock()

		clip, ok := clipAtParam(cfg, r)
		if !ok {
			WriteError(w, http.StatusNotFound, "clip not found", "NOT_FOUND")
			return
		}

		var moved bool
		switch req.Direction {
		case "up":
			moved = cfg.Sequence.MoveUp(clip)
		case "down":
			moved = cfg.Sequence.MoveDown(clip)
		case "top":
			moved = cfg.Sequence.MoveToTop(clip)
		case "bottom":
			moved = cfg.Sequence.MoveToBottom(clip)
		default:
			WriteError(w, http.StatusBadRequest, "direction must be up, down, top, or bottom", "BAD_REQUEST")
			return
		}

		WriteJSON(w, http.StatusOK, map[string]bool{"moved": moved})
	}
}

func selectClipHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SelectClipRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}

		cfg.Mu.Lock()
		defer cfg.Mu.Unlock()

		clip, ok := clipAtParam(cfg, r)
		if !ok {
			WriteError(w, http.StatusNotFound, "clip not found", "NOT_FOUND")
			return
		}

		cfg.Sequence.SetSelected(clip, req.Selected)
		WriteJSON(w, http.StatusOK, map[string]int{"selected_count": cfg.Sequence.SelectedCount()})
	}
}

func setClipTitleHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SetTitleRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}

		cfg.Mu.Lock()
		defer cfg.Mu.Unlock()

		clip, ok := clipAtParam(cfg, r)
		if !ok {
			WriteError(w, http.StatusNotFound, "clip not found", "NOT_FOUND")
			return
		}

		cfg.Sequence.SetTitle(clip, req.Title)
		WriteJSON(w, http.StatusOK, map[string]string{"name": clip.Title()})
	}
}

func removeSelectedHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cfg.Mu.Lock()
		removed := cfg.Sequence.RemoveSelected()
		cfg.Mu.Unlock()
		WriteJSON(w, http.StatusOK, map[string]int{"removed": removed})
	}
}

func selectAllHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cfg.Mu.Lock()
		cfg.Sequence.SelectAll()
		count := cfg.Sequence.SelectedCount()
		cfg.Mu.Unlock()
		WriteJSON(w, http.StatusOK, map[string]int{"selected_count": count})
	}
}

func deselectAllHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cfg.Mu.Lock()
		cfg.Sequence.DeselectAll()
		cfg.Mu.Unlock()
		WriteJSON(w, http.StatusOK, map[string]int{"selected_count": 0})
	}
}

func clearSequenceHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cfg.Mu.Lock()
		cfg.Sequence.Clear()
		cfg.Mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	}
}

// clipAtParam resolves the {index} URL parameter. Callers must hold cfg.Mu.
func clipAtParam(cfg ServerConfig, r *http.Request) (*sequence.Clip, bool) {
	idx, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		return nil, false
	}
	clip := cfg.Sequence.Clip(idx)
	if clip == nil {
		return nil, false
	}
	return clip, true
}
