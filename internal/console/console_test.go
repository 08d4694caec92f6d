package console

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"property-wizard/internal/wizard"
)

func TestRun_CompletesConversation(t *testing.T) {
	input := strings.Join([]string{
		"",
		"Duplex Ontario",
		":skip",
		"Montréal",
		"plex",
		"31/02/2022",
		"15/03/2022",
		"450 000 $",
		"passer",
		":SKIP",
	}, "\n") + "\n"
	var out bytes.Buffer

	state, err := Run(context.Background(), wizard.NewPropertyWizard(), strings.NewReader(input), &out)
	require.NoError(t, err)
	require.True(t, state.Completed)

	name, _ := state.Record.String(wizard.FieldName)
	require.Equal(t, "Duplex Ontario", name)
	_, hasAddress := state.Record[wizard.FieldAddress]
	require.False(t, hasAddress)

	text := out.String()
	require.True(t, strings.HasPrefix(text, wizard.PropertyIntro+"\n"))
	require.Contains(t, text, "Cette information est obligatoire")
	require.Contains(t, text, "AAAA-MM-JJ")
	require.Contains(t, text, wizard.SkipAcknowledgement)
	require.Contains(t, text, "• Nom : Duplex Ontario")
	require.NotContains(t, text, "> Duplex Ontario")
}

func TestRun_InputEndsEarly(t *testing.T) {
	var out bytes.Buffer
	state, err := Run(context.Background(), wizard.NewPropertyWizard(), strings.NewReader("Duplex Ontario\n"), &out)
	require.ErrorIs(t, err, ErrAborted)
	require.Equal(t, 1, state.Step)
}

func TestRun_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var out bytes.Buffer
	_, err := Run(ctx, wizard.NewPropertyWizard(), strings.NewReader("Duplex Ontario\n"), &out)
	require.ErrorIs(t, err, context.Canceled)
}
