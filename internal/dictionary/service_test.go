package dictionary_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/wuta/vocabaudio/internal/dictionary"
	mock_dictionary "github.com/wuta/vocabaudio/internal/mocks/dictionary"
)

func TestService_Upsert(t *testing.T) {
	created := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		entry       dictionary.DictionaryEntry
		setup       func(repo *mock_dictionary.MockRepository)
		wantErr     error
		wantNotify  int
		wantKey     string
		wantCreated *time.Time
	}{
		{
			name:  "new entry is stored under normalized key",
			entry: dictionary.DictionaryEntry{English: "  Spinning Hook-Kick ", Hangul: " 몸돌려차기 "},
			setup: func(repo *mock_dictionary.MockRepository) {
				repo.EXPECT().FindByKey(gomock.Any(), "spinning hook kick").Return(nil, nil)
				repo.EXPECT().Upsert(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, e *dictionary.DictionaryEntry) error {
						assert.Equal(t, "spinning hook kick", e.Key)
						assert.Equal(t, "Spinning Hook-Kick", e.English)
						assert.Equal(t, "몸돌려차기", e.Hangul)
						return nil
					})
			},
			wantNotify: 1,
			wantKey:    "spinning hook kick",
		},
		{
			name:  "existing entry keeps created_at",
			entry: dictionary.DictionaryEntry{English: "Front Kick", Hangul: "앞차기"},
			setup: func(repo *mock_dictionary.MockRepository) {
				repo.EXPECT().FindByKey(gomock.Any(), "front kick").
					Return(&dictionary.DictionaryEntry{Key: "front kick", CreatedAt: created}, nil)
				repo.EXPECT().Upsert(gomock.Any(), gomock.Any()).Return(nil)
			},
			wantNotify:  1,
			wantKey:     "front kick",
			wantCreated: &created,
		},
		{
			name:    "empty key is rejected",
			entry:   dictionary.DictionaryEntry{English: " -- ", Hangul: "앞차기"},
			setup:   func(repo *mock_dictionary.MockRepository) {},
			wantErr: dictionary.ErrInvalidEntry,
		},
		{
			name:    "missing hangul is rejected",
			entry:   dictionary.DictionaryEntry{English: "Front Kick"},
			setup:   func(repo *mock_dictionary.MockRepository) {},
			wantErr: dictionary.ErrInvalidEntry,
		},
		{
			name:  "repository failure does not notify",
			entry: dictionary.DictionaryEntry{English: "Front Kick", Hangul: "앞차기"},
			setup: func(repo *mock_dictionary.MockRepository) {
				repo.EXPECT().FindByKey(gomock.Any(), "front kick").Return(nil, nil)
				repo.EXPECT().Upsert(gomock.Any(), gomock.Any()).Return(errors.New("connection refused"))
			},
			wantErr: errors.New("connection refused"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repo := mock_dictionary.NewMockRepository(ctrl)
			tt.setup(repo)

			svc := dictionary.NewService(repo)
			notified := 0
			svc.OnChange(func() { notified++ })

			got, err := svc.Upsert(context.Background(), tt.entry)
			assert.Equal(t, tt.wantNotify, notified)
			if tt.wantErr != nil {
				require.Error(t, err)
				if errors.Is(tt.wantErr, dictionary.ErrInvalidEntry) {
					assert.ErrorIs(t, err, dictionary.ErrInvalidEntry)
				} else {
					assert.Contains(t, err.Error(), tt.wantErr.Error())
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantKey, got.Key)
			if tt.wantCreated != nil {
				assert.Equal(t, *tt.wantCreated, got.CreatedAt)
			}
			assert.False(t, got.UpdatedAt.IsZero())
		})
	}
}

func TestService_Delete(t *testing.T) {
	tests := []struct {
		name       string
		english    string
		setup      func(repo *mock_dictionary.MockRepository)
		want       bool
		wantNotify int
		wantErr    bool
	}{
		{
			name:    "existing entry notifies",
			english: "Front KICK",
			setup: func(repo *mock_dictionary.MockRepository) {
				repo.EXPECT().Delete(gomock.Any(), "front kick").Return(true, nil)
			},
			want:       true,
			wantNotify: 1,
		},
		{
			name:    "missing entry does not notify",
			english: "Front Kick",
			setup: func(repo *mock_dictionary.MockRepository) {
				repo.EXPECT().Delete(gomock.Any(), "front kick").Return(false, nil)
			},
		},
		{
			name:    "repository error",
			english: "Front Kick",
			setup: func(repo *mock_dictionary.MockRepository) {
				repo.EXPECT().Delete(gomock.Any(), "front kick").Return(false, errors.New("boom"))
			},
			wantErr: true,
		},
		{
			name:    "empty key",
			english: "!!",
			setup:   func(repo *mock_dictionary.MockRepository) {},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repo := mock_dictionary.NewMockRepository(ctrl)
			tt.setup(repo)

			svc := dictionary.NewService(repo)
			notified := 0
			svc.OnChange(func() { notified++ })

			got, err := svc.Delete(context.Background(), tt.english)
			assert.Equal(t, tt.wantNotify, notified)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestService_Lookup(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock_dictionary.NewMockRepository(ctrl)
	repo.EXPECT().FindByKey(gomock.Any(), "front kick").
		Return(&dictionary.DictionaryEntry{Key: "front kick", Hangul: "앞차기"}, nil)

	svc := dictionary.NewService(repo)

	got, err := svc.Lookup(context.Background(), "Front  Kick!")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "앞차기", got.Hangul)

	empty, err := svc.Lookup(context.Background(), "...")
	require.NoError(t, err)
	assert.Nil(t, empty)
}
