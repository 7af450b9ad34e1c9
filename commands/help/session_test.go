package help

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestSessionPagesThroughCategory(t *testing.T) {
	env := newTestEnv(t, nil, utilityModule(20), imageModule())
	sess := env.attach(t, ModeSlash)

	env.ctrl.HandleComponent(env.transport, click(ownerID, menuID, "UTILITY"))

	responds, edits := env.transport.counts()
	require.Equal(t, 1, responds)
	require.Equal(t, 1, edits)
	assert.Equal(t, discordgo.InteractionResponseDeferredMessageUpdate, env.transport.responds[0].Type)
	assert.Equal(t, 2, sess.PageCount())
	assert.Equal(t, 0, sess.CurrentPage())

	edit := env.transport.lastEdit(t)
	require.NotNil(t, edit.Embeds)
	page := (*edit.Embeds)[0]
	assert.Equal(t, "page 1 of 2", page.Footer.Text)
	assert.Equal(t, 15, strings.Count(page.Description, "❯ `/"))

	require.NotNil(t, edit.Components)
	rows := *edit.Components
	require.Len(t, rows, 2)
	assert.Equal(t, menuID, selectMenu(t, rows[0]).CustomID)
	nav := buttons(t, rows[1])
	require.Len(t, nav, 2)
	assert.Equal(t, previousID, nav[0].CustomID)
	assert.Equal(t, nextID, nav[1].CustomID)
	assert.False(t, nav[0].Disabled)
	assert.False(t, nav[1].Disabled)

	env.ctrl.HandleComponent(env.transport, click(ownerID, nextID))
	assert.Equal(t, 1, sess.CurrentPage())
	page = (*env.transport.lastEdit(t).Embeds)[0]
	assert.Equal(t, "page 2 of 2", page.Footer.Text)
	assert.Equal(t, 5, strings.Count(page.Description, "❯ `/"))

	env.ctrl.HandleComponent(env.transport, click(ownerID, previousID))
	assert.Equal(t, 0, sess.CurrentPage())
	_, edits = env.transport.counts()
	assert.Equal(t, 3, edits)
}

func TestSessionBoundariesSendNoEdit(t *testing.T) {
	env := newTestEnv(t, nil, utilityModule(20), imageModule())
	sess := env.attach(t, ModeSlash)
	env.ctrl.HandleComponent(env.transport, click(ownerID, menuID, "UTILITY"))

	env.ctrl.HandleComponent(env.transport, click(ownerID, previousID))
	assert.Equal(t, 0, sess.CurrentPage())
	_, edits := env.transport.counts()
	assert.Equal(t, 1, edits)

	env.ctrl.HandleComponent(env.transport, click(ownerID, nextID))
	env.ctrl.HandleComponent(env.transport, click(ownerID, nextID))
	assert.Equal(t, 1, sess.CurrentPage())
	responds, edits := env.transport.counts()
	assert.Equal(t, 2, edits)
	assert.Equal(t, 4, responds, "boundary clicks are still acknowledged")
}

func TestSessionSinglePageDisablesNavigation(t *testing.T) {
	env := newTestEnv(t, nil, utilityModule(3), imageModule())
	sess := env.attach(t, ModePrefix)

	env.ctrl.HandleComponent(env.transport, click(ownerID, menuID, "UTILITY"))
	assert.Equal(t, 1, sess.PageCount())

	rows := *env.transport.lastEdit(t).Components
	for _, b := range buttons(t, rows[1]) {
		assert.True(t, b.Disabled)
	}
	assert.False(t, selectMenu(t, rows[0]).Disabled)
}

func TestSessionIgnoresOtherUsers(t *testing.T) {
	env := newTestEnv(t, nil, utilityModule(20), imageModule())
	sess := env.attach(t, ModeSlash)

	env.ctrl.HandleComponent(env.transport, click(intruder, menuID, "UTILITY"))

	responds, edits := env.transport.counts()
	assert.Zero(t, responds)
	assert.Zero(t, edits)
	assert.Zero(t, sess.PageCount())
	assert.Equal(t, StateActive, sess.State())
}

func TestHandleComponentIgnoresForeignInteractions(t *testing.T) {
	env := newTestEnv(t, nil, utilityModule(3), imageModule())
	env.attach(t, ModeSlash)

	other := click(ownerID, "tickets:open")
	env.ctrl.HandleComponent(env.transport, other)

	unknown := click(ownerID, menuID, "UTILITY")
	unknown.Message = &discordgo.Message{ID: "somewhere-else"}
	env.ctrl.HandleComponent(env.transport, unknown)

	command := &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		Type: discordgo.InteractionApplicationCommand,
		Data: discordgo.ApplicationCommandInteractionData{Name: "help"},
	}}
	env.ctrl.HandleComponent(env.transport, command)

	responds, edits := env.transport.counts()
	assert.Zero(t, responds)
	assert.Zero(t, edits)
}

func TestSessionIdleTimeoutDisablesControls(t *testing.T) {
	env := newTestEnv(t, nil, utilityModule(20), imageModule())
	sess := env.attach(t, ModeSlash)
	env.ctrl.HandleComponent(env.transport, click(ownerID, menuID, "UTILITY"))

	env.clock.Advance(DefaultIdleTimeout - time.Second)
	assert.Equal(t, StateActive, sess.State())

	env.clock.Advance(time.Second)
	assert.Equal(t, StateExpired, sess.State())
	assert.Zero(t, env.ctrl.ActiveSessions())

	edit := env.transport.lastEdit(t)
	assert.Nil(t, edit.Embeds, "content is left as it is")
	require.NotNil(t, edit.Components)
	requireAllDisabled(t, *edit.Components)

	responds, edits := env.transport.counts()
	env.ctrl.HandleComponent(env.transport, click(ownerID, nextID))
	r2, e2 := env.transport.counts()
	assert.Equal(t, responds, r2)
	assert.Equal(t, edits, e2)
}

func TestSessionInteractionResetsIdleTimer(t *testing.T) {
	env := newTestEnv(t, nil, utilityModule(20), imageModule())
	sess := env.attach(t, ModeSlash)

	env.clock.Advance(20 * time.Second)
	env.ctrl.HandleComponent(env.transport, click(ownerID, menuID, "UTILITY"))
	env.clock.Advance(20 * time.Second)
	assert.Equal(t, StateActive, sess.State())

	env.clock.Advance(10 * time.Second)
	assert.Equal(t, StateExpired, sess.State())
}

func TestSessionLifetimeCapsActiveMenu(t *testing.T) {
	env := newTestEnv(t, nil, utilityModule(20), imageModule())
	sess := env.attach(t, ModeSlash)
	env.ctrl.HandleComponent(env.transport, click(ownerID, menuID, "UTILITY"))

	step := 20 * time.Second
	for elapsed := step; elapsed < DefaultMaxLifetime; elapsed += step {
		env.clock.Advance(step)
		require.Equal(t, StateActive, sess.State(), "expired early at %s", elapsed)
		env.ctrl.HandleComponent(env.transport, click(ownerID, previousID))
	}

	env.clock.Advance(step)
	assert.Equal(t, StateExpired, sess.State())
	requireAllDisabled(t, *env.transport.lastEdit(t).Components)
}

func TestSessionStopIsIdempotent(t *testing.T) {
	env := newTestEnv(t, nil, utilityModule(3), imageModule())
	sess := env.attach(t, ModeSlash)

	sess.Stop()
	sess.Stop()
	env.clock.Advance(DefaultMaxLifetime)

	_, edits := env.transport.counts()
	assert.Equal(t, 1, edits)
	assert.Equal(t, StateExpired, sess.State())

	// the link row is frozen along with the selector
	rows := *env.transport.lastEdit(t).Components
	require.Len(t, rows, 2)
	requireAllDisabled(t, rows)
}

func TestSessionSkipsDeletedMessage(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	env := newTestEnv(t, zap.New(core), utilityModule(3), imageModule())
	env.transport.editErr = &discordgo.RESTError{
		Message: &discordgo.APIErrorMessage{Code: discordgo.ErrCodeUnknownMessage, Message: "Unknown Message"},
	}
	sess := env.attach(t, ModeSlash)

	env.clock.Advance(DefaultIdleTimeout)

	assert.Equal(t, StateExpired, sess.State())
	assert.Zero(t, logs.FilterLevelExact(zapcore.WarnLevel).Len())
	assert.Equal(t, 1, logs.FilterMessage("help message no longer editable").Len())
}

func TestAttachReplacesSessionOnSameMessage(t *testing.T) {
	env := newTestEnv(t, nil, utilityModule(3), imageModule())
	first := env.attach(t, ModeSlash)
	second := env.attach(t, ModePrefix)

	assert.Equal(t, StateExpired, first.State())
	assert.Equal(t, StateActive, second.State())
	assert.Equal(t, 1, env.ctrl.ActiveSessions())

	// the old session's timers must not end the new one
	env.clock.Advance(DefaultIdleTimeout - time.Second)
	assert.Equal(t, StateActive, second.State())
}

func TestShutdownEndsAllSessions(t *testing.T) {
	env := newTestEnv(t, nil, utilityModule(3), imageModule())
	sess := env.attach(t, ModeSlash)

	env.ctrl.Shutdown()

	assert.Equal(t, StateExpired, sess.State())
	assert.Zero(t, env.ctrl.ActiveSessions())
}

func TestIsGone(t *testing.T) {
	apiErr := func(code int) error {
		return &discordgo.RESTError{Message: &discordgo.APIErrorMessage{Code: code}}
	}

	assert.True(t, isGone(apiErr(discordgo.ErrCodeUnknownMessage)))
	assert.True(t, isGone(apiErr(discordgo.ErrCodeCannotEditFromAnotherUser)))
	assert.True(t, isGone(fmt.Errorf("edit help message: %w", apiErr(discordgo.ErrCodeMissingAccess))))
	assert.False(t, isGone(apiErr(discordgo.ErrCodeMissingPermissions)))
	assert.False(t, isGone(errors.New("connection reset")))
}
