package subscription_test

import (
	"context"
	"errors"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/newsletter/internal/subscriber"
	"github.com/dmitrymomot/newsletter/internal/subscription"
)

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) Welcome(ctx context.Context, email, name string) error {
	return m.Called(ctx, email, name).Error(0)
}

type failingStore struct {
	err error
}

func (s failingStore) Insert(context.Context, string) (*subscriber.Subscriber, error) {
	return nil, s.err
}

func (s failingStore) ListEmails(context.Context) ([]string, error) { return nil, s.err }

func (s failingStore) DeleteByEmail(context.Context, string) (bool, error) { return false, s.err }

func TestService_Subscribe(t *testing.T) {
	t.Parallel()

	t.Run("stores and welcomes", func(t *testing.T) {
		t.Parallel()

		store := subscriber.NewMemoryStore()
		n := &mockNotifier{}
		n.On("Welcome", mock.Anything, "alice@example.com", "Alice").Return(nil).Once()

		res, err := subscription.NewService(store, n).Subscribe(context.Background(), subscription.SubscribeInput{
			Email: "  alice@example.com ",
			Name:  " Alice ",
		})
		require.NoError(t, err)
		assert.Equal(t, subscription.OutcomeSubscribed, res.Outcome)
		assert.Equal(t, "alice@example.com", res.Subscriber.Email)
		n.AssertExpectations(t)

		emails, err := store.ListEmails(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []string{"alice@example.com"}, emails)
	})

	t.Run("notification failure keeps the row", func(t *testing.T) {
		t.Parallel()

		store := subscriber.NewMemoryStore()
		mailErr := errors.New("relay refused")
		n := &mockNotifier{}
		n.On("Welcome", mock.Anything, "bob@example.com", "").Return(mailErr).Once()

		res, err := subscription.NewService(store, n).Subscribe(context.Background(), subscription.SubscribeInput{
			Email: "bob@example.com",
		})
		require.NoError(t, err)
		assert.Equal(t, subscription.OutcomeSubscribedNotifyFailed, res.Outcome)
		assert.ErrorIs(t, res.NotifyErr, mailErr)

		emails, err := store.ListEmails(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []string{"bob@example.com"}, emails)
	})

	t.Run("duplicate is rejected without notifying", func(t *testing.T) {
		t.Parallel()

		store := subscriber.NewMemoryStore()
		_, err := store.Insert(context.Background(), "carol@example.com")
		require.NoError(t, err)

		n := &mockNotifier{}
		res, err := subscription.NewService(store, n).Subscribe(context.Background(), subscription.SubscribeInput{
			Email: "carol@example.com",
		})
		require.ErrorIs(t, err, subscriber.ErrConflict)
		assert.Equal(t, subscription.OutcomeRejectedDuplicate, res.Outcome)
		n.AssertNotCalled(t, "Welcome", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("store failure", func(t *testing.T) {
		t.Parallel()

		n := &mockNotifier{}
		res, err := subscription.NewService(failingStore{err: subscriber.ErrStoreUnavailable}, n).
			Subscribe(context.Background(), subscription.SubscribeInput{Email: "d@example.com"})
		require.ErrorIs(t, err, subscriber.ErrStoreUnavailable)
		assert.Equal(t, subscription.OutcomeFailedStore, res.Outcome)
		n.AssertNotCalled(t, "Welcome", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("markup is stripped from the name", func(t *testing.T) {
		t.Parallel()

		n := &mockNotifier{}
		n.On("Welcome", mock.Anything, "e@example.com", "Eve").Return(nil).Once()

		_, err := subscription.NewService(subscriber.NewMemoryStore(), n).Subscribe(context.Background(),
			subscription.SubscribeInput{Email: "e@example.com", Name: "<b>Eve</b>"})
		require.NoError(t, err)
		n.AssertExpectations(t)
	})
}

func TestService_Unsubscribe(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		seed    []string
		email   string
		want    subscription.Outcome
		wantErr error
	}{
		{name: "removed", seed: []string{"a@x.io"}, email: " a@x.io ", want: subscription.OutcomeRemoved},
		{name: "not found", email: "a@x.io", want: subscription.OutcomeNotFound, wantErr: subscriber.ErrNotFound},
		{name: "case sensitive", seed: []string{"a@x.io"}, email: "A@x.io", want: subscription.OutcomeNotFound, wantErr: subscriber.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			store := subscriber.NewMemoryStore()
			for _, e := range tt.seed {
				_, err := store.Insert(context.Background(), e)
				require.NoError(t, err)
			}

			got, err := subscription.NewService(store, &mockNotifier{}).Unsubscribe(context.Background(), tt.email)
			assert.Equal(t, tt.want, got)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
		})
	}

	t.Run("store failure", func(t *testing.T) {
		t.Parallel()

		got, err := subscription.NewService(failingStore{err: subscriber.ErrStoreUnavailable}, &mockNotifier{}).
			Unsubscribe(context.Background(), "a@x.io")
		require.ErrorIs(t, err, subscriber.ErrStoreUnavailable)
		assert.Equal(t, subscription.OutcomeFailedStore, got)
	})
}

func TestService_List(t *testing.T) {
	t.Parallel()

	store := subscriber.NewMemoryStore()
	svc := subscription.NewService(store, &mockNotifier{})

	emails, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, emails)

	_, err = subscription.NewService(failingStore{err: subscriber.ErrStoreUnavailable}, &mockNotifier{}).
		List(context.Background())
	require.ErrorIs(t, err, subscriber.ErrStoreUnavailable)
}

func TestOutcome_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "subscribed_notify_failed", subscription.OutcomeSubscribedNotifyFailed.String())
	assert.Equal(t, "unknown", subscription.Outcome(99).String())
}

type stubMX struct {
	records []*net.MX
	err     error
}

func (s stubMX) LookupMX(context.Context, string) ([]*net.MX, error) {
	return s.records, s.err
}

func TestService_Subscribe_MXCheck(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mx      stubMX
		want    subscription.Outcome
		wantErr error
	}{
		{
			name: "domain accepts mail",
			mx:   stubMX{records: []*net.MX{{Host: "mx.example.com."}}},
			want: subscription.OutcomeSubscribed,
		},
		{
			name:    "domain without mx is rejected",
			mx:      stubMX{err: &net.DNSError{Err: "no such host", IsNotFound: true}},
			want:    subscription.OutcomeRejectedInvalid,
			wantErr: subscription.ErrUndeliverable,
		},
		{
			name: "resolver failure accepts address",
			mx:   stubMX{err: &net.DNSError{Err: "i/o timeout", IsTimeout: true}},
			want: subscription.OutcomeSubscribed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			store := subscriber.NewMemoryStore()
			n := &mockNotifier{}
			n.On("Welcome", mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()

			res, err := subscription.NewService(store, n, subscription.WithMXCheck(tt.mx)).
				Subscribe(context.Background(), subscription.SubscribeInput{Email: "a@example.com"})
			assert.Equal(t, tt.want, res.Outcome)

			emails, lerr := store.ListEmails(context.Background())
			require.NoError(t, lerr)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, emails)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, []string{"a@example.com"}, emails)
		})
	}
}
