package components

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/gateway-core/internal/domain"
)

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func stripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

func TestTableRender_AppliesConfiguredColumnWidth(t *testing.T) {
	tableModel := NewTable(
		WithColumns([]TableColumn{{Title: "ID", Width: 10}}),
		WithRows([][]string{{"abc"}}),
	)

	rendered := stripANSI(tableModel.Render())

	var rowLine string
	for _, line := range strings.Split(rendered, "\n") {
		if strings.Contains(line, "abc") {
			rowLine = line
			break
		}
	}
	require.NotEmpty(t, rowLine)
	assert.Contains(t, rowLine, "abc  ")
}

func TestTableRender_NoColumns(t *testing.T) {
	assert.Empty(t, NewTable().Render())
}

func TestTruncateCell(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		maxWidth int
		expected string
	}{
		{name: "short", value: "abc", maxWidth: 5, expected: "abc"},
		{name: "no limit", value: "abcdef", maxWidth: 0, expected: "abcdef"},
		{name: "ellipsis", value: "abcdef", maxWidth: 5, expected: "ab..."},
		{name: "tiny width", value: "abcdef", maxWidth: 2, expected: ".."},
		{name: "ansi kept", value: "\x1b[32mactive\x1b[0m", maxWidth: 2, expected: "\x1b[32mactive\x1b[0m"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, truncateCell(tt.value, tt.maxWidth))
		})
	}
}

func TestContainerTable(t *testing.T) {
	rendered := stripANSI(ContainerTable([]domain.ContainerRecord{
		{Name: "mqtt-broker", ImageTag: "eclipse-mosquitto:2", EngineID: "0123456789abcdef0123", State: domain.ContainerStateActive},
		{Name: "watchdog", ImageTag: "watchdog:1.4", EngineID: "fedcba", State: domain.ContainerStateInactive},
	}))

	assert.Contains(t, rendered, "mqtt-broker")
	assert.Contains(t, rendered, "eclipse-mosquitto:2")
	assert.Contains(t, rendered, "0123456789ab")
	assert.NotContains(t, rendered, "0123456789abcdef0123")
	assert.Contains(t, rendered, "active")
	assert.Contains(t, rendered, "inactive")
}

func TestRenderState(t *testing.T) {
	assert.Equal(t, "active", stripANSI(RenderState(domain.ContainerStateActive)))
	assert.Equal(t, "inactive", stripANSI(RenderState(domain.ContainerStateInactive)))
	assert.Equal(t, "unknown", stripANSI(RenderState(domain.ContainerState("unknown"))))
}
