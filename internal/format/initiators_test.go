package format

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"jobdash/internal/core"
)

func TestInitiators(t *testing.T) {
	tests := []struct {
		name       string
		initiators []core.Initiator
		want       string
	}{
		{"nil", nil, NoInitiators},
		{"empty", []core.Initiator{}, NoInitiators},
		{"single", []core.Initiator{{Type: "cron"}}, "cron"},
		{"ordered", []core.Initiator{{Type: "web"}, {Type: "runlog"}}, "web, runlog"},
		{"blank type", []core.Initiator{{Type: " "}, {Type: "cron"}}, "unknown, cron"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Initiators(tt.initiators))
		})
	}
}
