package delivery

import "github.com/KaranKool/mishtee-mitra/internal/models"

// Effect is a gateway call requested by a transition.
type Effect interface {
	effectName() string
}

type EffectLookupAgent struct {
	Phone string
}

type EffectFetchActiveJob struct {
	AgentID string
}

type EffectSetJobStatus struct {
	JobID  string
	Status models.JobStatusType
}

func (EffectLookupAgent) effectName() string    { return "lookup_agent" }
func (EffectFetchActiveJob) effectName() string { return "fetch_active_job" }
func (EffectSetJobStatus) effectName() string   { return "set_job_status" }
