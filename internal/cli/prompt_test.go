package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPromptDefaultIsYes(t *testing.T) {
	var out bytes.Buffer
	p := newPrompt(strings.NewReader("\n"), &out, false)

	require.True(t, p.Confirm("2 files need to be deleted. Continue?"))
	require.Contains(t, out.String(), "(Y/n)")
}

func TestPromptExplicitNo(t *testing.T) {
	var out bytes.Buffer

	for _, answer := range []string{"n\n", "N\n", "  n  \n"} {
		p := newPrompt(strings.NewReader(answer), &out, false)
		require.False(t, p.Confirm("Continue?"))
	}
}

func TestPromptAnythingElseAffirms(t *testing.T) {
	var out bytes.Buffer

	for _, answer := range []string{"y\n", "yes\n", "whatever\n"} {
		p := newPrompt(strings.NewReader(answer), &out, false)
		require.True(t, p.Confirm("Continue?"))
	}
}

func TestPromptAssumeYesReadsNothing(t *testing.T) {
	var out bytes.Buffer
	p := newPrompt(strings.NewReader(""), &out, true)

	require.True(t, p.Confirm("Continue?"))
	require.Contains(t, out.String(), "y\n")
}

func TestPromptExhaustedInputRefuses(t *testing.T) {
	var out bytes.Buffer
	p := newPrompt(strings.NewReader(""), &out, false)

	require.False(t, p.Confirm("Continue?"))
}
