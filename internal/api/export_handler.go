package api

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/trimdeck/trimdeck-agent/internal/export"
)

func exportSequenceHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ExportRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}

		if strings.ToLower(req.Format) != "edl" {
			WriteError(w, http.StatusBadRequest, "format must be edl", "BAD_REQUEST")
			return
		}

		if err := export.ValidateOutputDir(req.OutputDir); err != nil {
			WriteError(w, http.StatusBadRequest, err.Error(), "BAD_REQUEST")
			return
		}

		projectName := export.SanitizeName(req.ProjectName, 120)
		if projectName == "" {
			projectName = "trimdeck_export"
		}

		frameRate := req.FrameRate
		if frameRate <= 0 {
			frameRate = cfg.FrameRate
		}
		if frameRate <= 0 {
			frameRate = 30.0
		}

		cfg.Mu.Lock()
		clips := cfg.Sequence.Clips()
		cuts := make([]export.Cut, 0, len(clips))
		for _, c := range clips {
			if req.SelectedOnly && !c.Selected {
				continue
			}
			cuts = append(cuts, export.Cut{
				Name:      export.SanitizeName(c.Title(), 160),
				MediaPath: c.SourcePath,
				StartMs:   c.StartMs,
				EndMs:     c.EndMs,
			})
		}
		cfg.Mu.Unlock()

		if len(cuts) == 0 {
			WriteError(w, http.StatusUnprocessableEntity, "no clips to export", "EMPTY_SEQUENCE")
			return
		}

		edl := export.GenerateEDL(cuts, projectName, frameRate)
		outputPath := filepath.Join(req.OutputDir, projectName+".edl")
		if err := os.WriteFile(outputPath, []byte(edl), 0o644); err != nil {
			WriteError(w, http.StatusInternalServerError, "failed to write export file", "INTERNAL_ERROR")
			return
		}

		WriteJSON(w, http.StatusOK, ExportResponse{
			Status:     "ok",
			Format:     "edl",
			OutputPath: outputPath,
			ClipCount:  len(cuts),
		})
	}
}
