package api

import (
	"time"

	"github.com/trimdeck/trimdeck-agent/internal/library"
	"github.com/trimdeck/trimdeck-agent/internal/playback"
	"github.com/trimdeck/trimdeck-agent/internal/sequence"
)

type HealthResponse struct {
	Status   string `json:"status"`
	Version  string `json:"version"`
	UptimeS  int64  `json:"uptime_s"`
	DeviceID string `json:"device_id"`
}

type StatusResponse struct {
	QueueState    string       `json:"queue_state"`
	QueueMode     string       `json:"queue_mode"`
	QueueLen      int          `json:"queue_len"`
	ClipCount     int          `json:"clip_count"`
	SelectedCount int          `json:"selected_count"`
	SourcesCount  int          `json:"sources_count"`
	FilesCount    int          `json:"files_count"`
	JobsRunning   int          `json:"jobs_running"`
	IndexPaused   bool         `json:"index_paused"`
	LastError     string       `json:"last_error,omitempty"`
	ActiveJob     *JobResponse `json:"active_job,omitempty"`
}

type ClipResponse struct {
	Index      int    `json:"index"`
	Order      int    `json:"order"`
	Name       string `json:"name"`
	StartMs    int64  `json:"start_ms"`
	EndMs      int64  `json:"end_ms"`
	DurationMs int64  `json:"duration_ms"`
	SourcePath string `json:"source_path"`
	Selected   bool   `json:"selected"`
	First      bool   `json:"first"`
	Last       bool   `json:"last"`
}

type SequenceResponse struct {
	Clips         []ClipResponse `json:"clips"`
	Count         int            `json:"count"`
	SelectedCount int            `json:"selected_count"`
}

type AddClipRequest struct {
	Name       string `json:"name,omitempty"`
	StartMs    int64  `json:"start_ms"`
	EndMs      int64  `json:"end_ms"`
	SourcePath string `json:"source_path,omitempty"`
	FileID     string `json:"file_id,omitempty"`
}

type MoveClipRequest struct {
	Direction string `json:"direction"`
}

type SelectClipRequest struct {
	Selected bool `json:"selected"`
}

type SetTitleRequest struct {
	Title string `json:"title"`
}

type QueueItemResponse struct {
	Index      int    `json:"index"`
	Path       string `json:"path"`
	Title      string `json:"title"`
	DurationMs int64  `json:"duration_ms"`
	Current    bool   `json:"current"`
}

type QueueResponse struct {
	Items        []QueueItemResponse `json:"items"`
	CurrentIndex int                 `json:"current_index"`
	Mode         string              `json:"mode"`
	State        string              `json:"state"`
	HasNext      bool                `json:"has_next"`
	HasPrevious  bool                `json:"has_previous"`
}

type QueueItemRequest struct {
	Path       string `json:"path,omitempty"`
	Title      string `json:"title,omitempty"`
	DurationMs int64  `json:"duration_ms,omitempty"`
	FileID     string `json:"file_id,omitempty"`
}

type AddQueueItemsRequest struct {
	Items []QueueItemRequest `json:"items"`
}

type RemoveQueueItemRequest struct {
	Path string `json:"path"`
}

type SetCurrentRequest struct {
	Index int `json:"index"`
}

type SetModeRequest struct {
	Mode string `json:"mode"`
}

type ExportRequest struct {
	Format       string  `json:"format"`
	ProjectName  string  `json:"project_name"`
	OutputDir    string  `json:"output_dir"`
	FrameRate    float64 `json:"frame_rate,omitempty"`
	SelectedOnly bool    `json:"selected_only,omitempty"`
}

type ExportResponse struct {
	Status     string `json:"status"`
	Format     string `json:"format"`
	OutputPath string `json:"output_path"`
	ClipCount  int    `json:"clip_count"`
}

type AddFolderRequest struct {
	Path        string `json:"path"`
	DisplayName string `json:"display_name,omitempty"`
}

type AddFolderResponse struct {
	SourceID string `json:"source_id"`
}

type SourceResponse struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	Path        string `json:"path"`
	DisplayName string `json:"display_name"`
	Present     bool   `json:"present"`
	CreatedAt   string `json:"created_at"`
}

type SourcesResponse struct {
	Sources []SourceResponse `json:"sources"`
}

type ScanRequest struct {
	SourceID string `json:"source_id,omitempty"`
}

type ScanResponse struct {
	JobID string `json:"job_id"`
}

type JobResponse struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	Status    string `json:"status"`
	SourceID  string `json:"source_id,omitempty"`
	Progress  int    `json:"progress"`
	Error     string `json:"error,omitempty"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

type JobsResponse struct {
	Jobs []JobResponse `json:"jobs"`
}

type FileResponse struct {
	ID          string `json:"id"`
	SourceID    string `json:"source_id"`
	Path        string `json:"path"`
	Filename    string `json:"filename"`
	Size        int64  `json:"size"`
	DurationMs  int64  `json:"duration_ms"`
	Fingerprint string `json:"fingerprint"`
	CreatedAt   string `json:"created_at"`
}

type FilesResponse struct {
	Files []FileResponse `json:"files"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func ClipToResponse(c *sequence.Clip, index int) ClipResponse {
	return ClipResponse{
		Index:      index,
		Order:      c.Order,
		Name:       c.Title(),
		StartMs:    c.StartMs,
		EndMs:      c.EndMs,
		DurationMs: c.DurationMs(),
		SourcePath: c.SourcePath,
		Selected:   c.Selected,
		First:      c.First,
		Last:       c.Last,
	}
}

func SequenceToResponse(m *sequence.Manager) SequenceResponse {
	clips := m.Clips()
	resp := SequenceResponse{
		Clips:         make([]ClipResponse, len(clips)),
		Count:         m.Count(),
		SelectedCount: m.SelectedCount(),
	}
	for i, c := range clips {
		resp.Clips[i] = ClipToResponse(c, i)
	}
	return resp
}

func QueueToResponse(q *playback.Manager) QueueResponse {
	items := q.Items()
	resp := QueueResponse{
		Items:        make([]QueueItemResponse, len(items)),
		CurrentIndex: q.CurrentIndex(),
		Mode:         q.Mode().String(),
		State:        q.State().String(),
		HasNext:      q.HasNext(),
		HasPrevious:  q.HasPrevious(),
	}
	for i, it := range items {
		resp.Items[i] = QueueItemResponse{
			Index:      i,
			Path:       it.Path,
			Title:      it.Title,
			DurationMs: it.DurationMs,
			Current:    i == q.CurrentIndex(),
		}
	}
	return resp
}

func SourceToResponse(s *library.Source) SourceResponse {
	return SourceResponse{
		ID:          s.ID,
		Type:        s.Type,
		Path:        s.Path,
		DisplayName: s.DisplayName,
		Present:     s.Present,
		CreatedAt:   s.CreatedAt.Format(time.RFC3339),
	}
}

func JobToResponse(j *library.Job) JobResponse {
	return JobResponse{
		ID:        j.ID,
		Type:      j.Type,
		Status:    j.Status,
		SourceID:  j.SourceID,
		Progress:  j.Progress,
		Error:     j.Error,
		CreatedAt: j.CreatedAt.Format(time.RFC3339),
		UpdatedAt: j.UpdatedAt.Format(time.RFC3339),
	}
}

func FileToResponse(f *library.File) FileResponse {
	return FileResponse{
		ID:          f.ID,
		SourceID:    f.SourceID,
		Path:        f.Path,
		Filename:    f.Filename,
		Size:        f.Size,
		DurationMs:  f.DurationMs,
		Fingerprint: f.Fingerprint,
		CreatedAt:   f.CreatedAt.Format(time.RFC3339),
	}
}
