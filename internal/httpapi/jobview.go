package httpapi

import (
	"time"

	"github.com/google/uuid"

	"github.com/syla/execution-service/internal/model"
)

// jobView is the HTTP wire shape: status uses the wire name ("queued" for
// the internal "pending"), and absent timestamps/result are omitted.
type jobView struct {
	ID          uuid.UUID      `json:"id"`
	Status      string         `json:"status"`
	Request     model.Request  `json:"request"`
	CreatedAt   time.Time      `json:"created_at"`
	StartedAt   *time.Time     `json:"started_at,omitempty"`
	CompletedAt *time.Time     `json:"completed_at,omitempty"`
	Result      *model.Result  `json:"result,omitempty"`
}

func toJobView(j *model.Job) jobView {
	return jobView{
		ID:          j.ID,
		Status:      j.Status.WireStatus(),
		Request:     j.Request,
		CreatedAt:   j.CreatedAt,
		StartedAt:   j.StartedAt,
		CompletedAt: j.CompletedAt,
		Result:      j.Result,
	}
}

type jobListView struct {
	Jobs       []jobView `json:"jobs"`
	Total      int       `json:"total"`
	Size       int       `json:"size"`
	Number     int       `json:"number"`
	TotalPages int       `json:"total_pages"`
}

func toJobListView(p *model.Page) jobListView {
	views := make([]jobView, 0, len(p.Jobs))
	for _, j := range p.Jobs {
		views = append(views, toJobView(j))
	}
	return jobListView{
		Jobs:       views,
		Total:      p.Total,
		Size:       p.Size,
		Number:     p.Number,
		TotalPages: p.TotalPages,
	}
}
