package format

import (
	"strings"

	"jobdash/internal/core"
)

const (
	// NoInitiators is shown for a job spec without initiators
	NoInitiators = "none"
	// InitiatorSeparator joins the labels of several initiators
	InitiatorSeparator = ", "

	unknownInitiator = "unknown"
)

// Initiators summarises a list of initiators as one string, keeping input order
func Initiators(initiators []core.Initiator) string {
	if len(initiators) == 0 {
		return NoInitiators
	}
	labels := make([]string, 0, len(initiators))
	for _, i := range initiators {
		labels = append(labels, initiatorLabel(i))
	}
	return strings.Join(labels, InitiatorSeparator)
}

func initiatorLabel(i core.Initiator) string {
	label := strings.TrimSpace(i.Type)
	if label == "" {
		return unknownInitiator
	}
	return label
}
