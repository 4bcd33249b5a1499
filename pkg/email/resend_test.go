package email

import (
	"testing"
	"time"

	"github.com/sefazor/cityevents-backend/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRenderWelcome(t *testing.T) {
	name := "<script>Ann</script>"
	body, err := renderWelcome("City Events", "ann@example.com", &name, time.Date(2031, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.Contains(t, body, "ann@example.com")
	assert.Contains(t, body, "2031 City Events")
	assert.NotContains(t, body, "<script>")
	assert.Contains(t, body, "&lt;script&gt;Ann")

	anonymous, err := renderWelcome("City Events", "bob@example.com", nil, time.Now())
	require.NoError(t, err)
	assert.Contains(t, anonymous, "<h1>Welcome!</h1>")
}

func TestNewEmailService(t *testing.T) {
	svc := NewEmailService(config.EmailConfig{
		ResendAPIKey: "re_test",
		FromAddress:  "noreply@example.com",
		FromName:     "City Events",
	}, zap.NewNop())
	assert.Equal(t, "noreply@example.com", svc.from)

	var _ Sender = svc
	var _ Sender = NopSender{}
	assert.NoError(t, NopSender{}.SendWelcomeEmail("x@example.com", nil))
}
