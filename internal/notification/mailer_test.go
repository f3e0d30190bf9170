package notification

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imadgeboyega/tadhana-backend/internal/common/logger"
)

type namedMock struct {
	*MockTransport
	name string
}

func (n namedMock) Name() string { return n.name }

func TestMailerFallsBackInOrder(t *testing.T) {
	primary := namedMock{MockTransport: NewMockTransport(), name: "primary"}
	primary.Fail = errors.New("quota exceeded")
	secondary := namedMock{MockTransport: NewMockTransport(), name: "secondary"}
	tertiary := namedMock{MockTransport: NewMockTransport(), name: "tertiary"}

	m := NewMailer(logger.NewNop(), primary, secondary, tertiary)
	err := m.Send(context.Background(), &Email{To: "a@up.edu.ph", Subject: "hi", Body: "hello"})
	require.NoError(t, err)

	assert.Empty(t, primary.Messages())
	assert.Len(t, secondary.Messages(), 1)
	assert.Empty(t, tertiary.Messages(), "delivery stops at the first success")
}

func TestMailerAllTransportsFail(t *testing.T) {
	a := namedMock{MockTransport: NewMockTransport(), name: "a"}
	a.Fail = errors.New("boom")
	b := namedMock{MockTransport: NewMockTransport(), name: "b"}
	b.Fail = errors.New("bang")

	err := NewMailer(logger.NewNop(), a, b).Send(context.Background(), &Email{To: "x@y.z"})
	require.Error(t, err)
	assert.ErrorIs(t, err, a.Fail)
	assert.ErrorIs(t, err, b.Fail)
}

func TestMailerWithoutTransports(t *testing.T) {
	err := NewMailer(logger.NewNop()).Send(context.Background(), &Email{To: "x@y.z"})
	assert.ErrorIs(t, err, ErrNoTransport)
}

func TestNotifyNeverFailsCaller(t *testing.T) {
	broken := NewMockTransport()
	broken.Fail = errors.New("smtp down")
	svc := NewService(NewMailer(logger.NewNop(), broken), time.Second, logger.NewNop())

	assert.NotPanics(t, func() {
		svc.Notify(context.Background(), KindMatchFound, "a@up.edu.ph", map[string]interface{}{
			"alias": "QuietFern42", "score": 77, "reasons": []string{"🎯 Preferences align"},
		})
	})
}

func TestNotifyIgnoresCancelledRequest(t *testing.T) {
	mock := NewMockTransport()
	svc := NewService(NewMailer(logger.NewNop(), mock), time.Second, logger.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	svc.Notify(ctx, KindFirstMessage, "b@up.edu.ph", map[string]interface{}{
		"alias": "BraveOtter07", "partner_alias": "QuietFern42",
	})
	svc.Wait()

	require.Len(t, mock.Messages(), 1)
	assert.Equal(t, "b@up.edu.ph", mock.Messages()[0].To)
}

// blockingTransport holds every send until release is closed
type blockingTransport struct {
	release chan struct{}
	sent    int32
}

func (b *blockingTransport) Name() string { return "blocking" }

func (b *blockingTransport) Send(ctx context.Context, email *Email) error {
	<-b.release
	atomic.AddInt32(&b.sent, 1)
	return nil
}

func TestNotifyDoesNotWaitForDelivery(t *testing.T) {
	slow := &blockingTransport{release: make(chan struct{})}
	svc := NewService(NewMailer(logger.NewNop(), slow), time.Second, logger.NewNop())

	done := make(chan struct{})
	go func() {
		for i := 0; i < 2*maxInFlight; i++ {
			svc.Notify(context.Background(), KindFirstMessage, "b@up.edu.ph", map[string]interface{}{
				"alias": "BraveOtter07", "partner_alias": "QuietFern42",
			})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Notify blocked on a stalled transport")
	}
	assert.Zero(t, atomic.LoadInt32(&slow.sent))

	close(slow.release)
	svc.Wait()
	assert.Equal(t, int32(2*maxInFlight), atomic.LoadInt32(&slow.sent))
}

func TestRender(t *testing.T) {
	email, err := Render(KindMatchFound, "a@up.edu.ph", map[string]interface{}{
		"alias":   "QuietFern42",
		"score":   77,
		"reasons": []string{"🌟 4 shared interests", "💌 Love languages click"},
	})
	require.NoError(t, err)
	assert.Equal(t, "a@up.edu.ph", email.To)
	assert.Contains(t, email.Body, "QuietFern42")
	assert.Contains(t, email.Body, "77")
	assert.Contains(t, email.Body, "• 🌟 4 shared interests")

	email, err = Render(KindRevealAnonymous, "a@up.edu.ph", map[string]interface{}{
		"alias": "QuietFern42", "partner_alias": "BraveOtter07", "partner_email": "b@up.edu.ph",
	})
	require.NoError(t, err)
	assert.Contains(t, email.Body, "BraveOtter07")
	assert.NotContains(t, email.Body, "<no value>")

	_, err = Render(Kind("bogus"), "a@up.edu.ph", nil)
	assert.Error(t, err)
}

func TestBuildMIME(t *testing.T) {
	raw := string(buildMIME("Tadhana", "noreply@tadhana.ph", &Email{To: "a@up.edu.ph", Subject: "Hi", Body: "plain"}))
	assert.Contains(t, raw, "To: a@up.edu.ph\r\n")
	assert.Contains(t, raw, "text/plain")
	assert.Contains(t, raw, "\r\n\r\nplain")
}
