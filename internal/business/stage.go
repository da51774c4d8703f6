package business

import "fmt"

// Stage is a business's position in the sales classification. Any stage
// may be assigned from any other; the set itself is closed.
type Stage string

const (
	StageLead          Stage = "lead"
	StageProspect      Stage = "prospect"
	StageQualified     Stage = "qualified"
	StageOfferSent     Stage = "offer_sent"
	StageOfferAccepted Stage = "offer_accepted"
	StageCustomer      Stage = "customer"
)

// DefaultStage is assigned to every new draft.
const DefaultStage = StageLead

var stageOrder = [...]Stage{
	StageLead,
	StageProspect,
	StageQualified,
	StageOfferSent,
	StageOfferAccepted,
	StageCustomer,
}

// Stages returns all stages in display order.
func Stages() []Stage {
	out := make([]Stage, len(stageOrder))
	copy(out, stageOrder[:])
	return out
}

// ParseStage accepts only the canonical stage identifiers.
func ParseStage(value string) (Stage, error) {
	s := Stage(value)
	if !s.Valid() {
		return "", fmt.Errorf("unknown stage %q", value)
	}
	return s, nil
}

// Valid reports whether s is one of the canonical stages.
func (s Stage) Valid() bool {
	switch s {
	case StageLead, StageProspect, StageQualified, StageOfferSent, StageOfferAccepted, StageCustomer:
		return true
	}
	return false
}

// Label is the human readable name shown in selection lists.
func (s Stage) Label() string {
	switch s {
	case StageLead:
		return "Lead"
	case StageProspect:
		return "Prospect"
	case StageQualified:
		return "Qualified"
	case StageOfferSent:
		return "Offer sent"
	case StageOfferAccepted:
		return "Offer accepted"
	case StageCustomer:
		return "Customer"
	default:
		return string(s)
	}
}

func (s Stage) index() int {
	for i, candidate := range stageOrder {
		if candidate == s {
			return i
		}
	}
	return 0
}

// Next returns the following stage in display order, wrapping around.
func (s Stage) Next() Stage {
	return stageOrder[(s.index()+1)%len(stageOrder)]
}

// Prev returns the preceding stage in display order, wrapping around.
func (s Stage) Prev() Stage {
	return stageOrder[(s.index()+len(stageOrder)-1)%len(stageOrder)]
}
