package usecase_test

import (
	"context"
	"sync"
	"testing"

	"github.com/elainedb/videofeed/domain/model"
	"github.com/elainedb/videofeed/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// Mock implementations
type MockVideoSource struct {
	mock.Mock
}

func (m *MockVideoSource) FetchChannelVideos(ctx context.Context, channelID string, limit int) ([]model.Video, error) {
	args := m.Called(channelID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Video), args.Error(1)
}

func (m *MockVideoSource) FetchVideoDetails(ctx context.Context, ids []string) ([]model.VideoDetail, error) {
	args := m.Called(ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.VideoDetail), args.Error(1)
}

type MockGeocoder struct {
	mock.Mock
}

func (m *MockGeocoder) ReverseGeocode(ctx context.Context, lat, lng float64) *model.Place {
	args := m.Called(lat, lng)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*model.Place)
}

// memStore is an in-memory envelope store for cache behavior tests.
type memStore struct {
	mu   sync.Mutex
	data map[string]string
}

func newMemStore() *memStore {
	return &memStore{data: map[string]string{}}
}

func (s *memStore) Get(ctx context.Context, key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	val, ok := s.data[key]
	return val, ok
}

func (s *memStore) Set(ctx context.Context, key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
}

func ptr(f float64) *float64 { return &f }

func TestFeedUseCase_GetCombinedVideos_MergesEnrichesAndSorts(t *testing.T) {
	mockSource := new(MockVideoSource)
	mockGeocoder := new(MockGeocoder)

	mockSource.On("FetchChannelVideos", "ch1", 5).
		Return([]model.Video{
			{ID: "a", Title: "A", ChannelID: "ch1", PublishedAt: "2024-05-01T10:00:00Z"},
		}, nil).
		Once()
	mockSource.On("FetchChannelVideos", "ch2", 5).
		Return([]model.Video{
			{ID: "b", Title: "B", ChannelID: "ch2", PublishedAt: "2024-06-01T10:00:00Z"},
			{ID: "c", Title: "C", ChannelID: "ch2", PublishedAt: ""},
		}, nil).
		Once()
	mockSource.On("FetchVideoDetails", []string{"a", "b", "c"}).
		Return([]model.VideoDetail{
			{ID: "a", Tags: []string{"travel"}, LocationDescription: "Montmartre, Paris, France", Latitude: ptr(48.88), Longitude: ptr(2.34)},
			{ID: "b", RecordingDate: "2024-05-20", Latitude: ptr(45.75), Longitude: ptr(4.85)},
			{ID: "c"},
		}, nil).
		Once()

	// Only b needs geocoding: a already has city and country from its
	// location description, c has no coordinates.
	mockGeocoder.On("ReverseGeocode", 45.75, 4.85).
		Return(&model.Place{City: "Lyon", Country: "France"}).
		Once()

	feedUseCase := usecase.NewFeedUseCase(mockSource, mockGeocoder, newMemStore())
	videos, err := feedUseCase.GetCombinedVideos(context.Background(), []string{"ch1", "ch2"}, 5, false)

	require.NoError(t, err)
	require.Len(t, videos, 3)

	// Newest first; the video without a timestamp sorts last.
	assert.Equal(t, "b", videos[0].ID)
	assert.Equal(t, "a", videos[1].ID)
	assert.Equal(t, "c", videos[2].ID)

	// Free-text parsing: first segment is the city, last is the country.
	assert.Equal(t, "Montmartre", videos[1].LocationCity)
	assert.Equal(t, "France", videos[1].LocationCountry)
	assert.Equal(t, []string{"travel"}, videos[1].Tags)

	// Geocoded fields fill in where parsing produced nothing.
	assert.Equal(t, "Lyon", videos[0].LocationCity)
	assert.Equal(t, "France", videos[0].LocationCountry)
	assert.Equal(t, "2024-05-20", videos[0].RecordingDate)
	require.NotNil(t, videos[0].LocationLat)
	assert.Equal(t, 45.75, *videos[0].LocationLat)

	mockSource.AssertExpectations(t)
	mockGeocoder.AssertExpectations(t)
}

func TestFeedUseCase_GetCombinedVideos_ServedFromCache(t *testing.T) {
	store := newMemStore()
	mockSource := new(MockVideoSource)
	mockGeocoder := new(MockGeocoder)

	mockSource.On("FetchChannelVideos", "ch1", 3).
		Return([]model.Video{{ID: "a", PublishedAt: "2024-05-01T10:00:00Z"}}, nil).
		Once()
	mockSource.On("FetchVideoDetails", []string{"a"}).
		Return([]model.VideoDetail{{ID: "a"}}, nil).
		Once()

	feedUseCase := usecase.NewFeedUseCase(mockSource, mockGeocoder, store)
	first, err := feedUseCase.GetCombinedVideos(context.Background(), []string{"ch1"}, 3, false)
	require.NoError(t, err)

	// Second call hits the cache: a usecase built over mocks with no
	// expectations would fail the test on any upstream call.
	coldSource := new(MockVideoSource)
	coldGeocoder := new(MockGeocoder)
	cachedUseCase := usecase.NewFeedUseCase(coldSource, coldGeocoder, store)
	second, err := cachedUseCase.GetCombinedVideos(context.Background(), []string{"ch1"}, 3, false)

	require.NoError(t, err)
	assert.Equal(t, first, second)
	mockSource.AssertExpectations(t)
}

func TestFeedUseCase_GetCombinedVideos_ForceRefreshBypassesCache(t *testing.T) {
	store := newMemStore()
	mockSource := new(MockVideoSource)
	mockGeocoder := new(MockGeocoder)

	mockSource.On("FetchChannelVideos", "ch1", 3).
		Return([]model.Video{{ID: "a", PublishedAt: "2024-05-01T10:00:00Z"}}, nil).
		Twice()
	mockSource.On("FetchVideoDetails", []string{"a"}).
		Return([]model.VideoDetail{{ID: "a"}}, nil).
		Twice()

	feedUseCase := usecase.NewFeedUseCase(mockSource, mockGeocoder, store)

	_, err := feedUseCase.GetCombinedVideos(context.Background(), []string{"ch1"}, 3, false)
	require.NoError(t, err)
	_, err = feedUseCase.GetCombinedVideos(context.Background(), []string{"ch1"}, 3, true)
	require.NoError(t, err)

	mockSource.AssertExpectations(t)
}

func TestFeedUseCase_GetCombinedVideos_ClampsPerChannel(t *testing.T) {
	mockSource := new(MockVideoSource)
	mockGeocoder := new(MockGeocoder)

	// A negative limit must not panic on slice sizing; it is raised to one
	// video per channel before any allocation.
	mockSource.On("FetchChannelVideos", "ch1", 1).
		Return([]model.Video{{ID: "a", PublishedAt: "2024-05-01T10:00:00Z"}}, nil).
		Once()
	mockSource.On("FetchVideoDetails", []string{"a"}).
		Return([]model.VideoDetail{{ID: "a"}}, nil).
		Once()

	feedUseCase := usecase.NewFeedUseCase(mockSource, mockGeocoder, newMemStore())
	videos, err := feedUseCase.GetCombinedVideos(context.Background(), []string{"ch1"}, -5, false)
	require.NoError(t, err)
	assert.Len(t, videos, 1)

	// Oversized limits are capped the same way.
	mockSource.On("FetchChannelVideos", "ch1", 500).
		Return([]model.Video{{ID: "b", PublishedAt: "2024-05-02T10:00:00Z"}}, nil).
		Once()
	mockSource.On("FetchVideoDetails", []string{"b"}).
		Return([]model.VideoDetail{{ID: "b"}}, nil).
		Once()

	videos, err = feedUseCase.GetCombinedVideos(context.Background(), []string{"ch1"}, 100000, false)
	require.NoError(t, err)
	assert.Len(t, videos, 1)

	mockSource.AssertExpectations(t)
}

func TestFeedUseCase_GetCombinedVideos_ChannelErrorPropagates(t *testing.T) {
	mockSource := new(MockVideoSource)
	mockGeocoder := new(MockGeocoder)

	mockSource.On("FetchChannelVideos", "ch1", 3).
		Return(nil, assert.AnError)

	feedUseCase := usecase.NewFeedUseCase(mockSource, mockGeocoder, newMemStore())
	_, err := feedUseCase.GetCombinedVideos(context.Background(), []string{"ch1"}, 3, false)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "channel ch1")
}

func TestFeedUseCase_GetCombinedVideos_DetailErrorPropagates(t *testing.T) {
	mockSource := new(MockVideoSource)
	mockGeocoder := new(MockGeocoder)

	mockSource.On("FetchChannelVideos", "ch1", 3).
		Return([]model.Video{{ID: "a"}}, nil).
		Once()
	mockSource.On("FetchVideoDetails", []string{"a"}).
		Return(nil, assert.AnError).
		Once()

	feedUseCase := usecase.NewFeedUseCase(mockSource, mockGeocoder, newMemStore())
	_, err := feedUseCase.GetCombinedVideos(context.Background(), []string{"ch1"}, 3, false)

	require.Error(t, err)
	mockSource.AssertExpectations(t)
}

func TestFeedUseCase_GetCombinedVideos_EmptyResultIsCached(t *testing.T) {
	store := newMemStore()
	mockSource := new(MockVideoSource)
	mockGeocoder := new(MockGeocoder)

	mockSource.On("FetchChannelVideos", "ch1", 3).
		Return([]model.Video{}, nil).
		Once()
	mockSource.On("FetchVideoDetails", []string{}).
		Return([]model.VideoDetail{}, nil).
		Once()

	feedUseCase := usecase.NewFeedUseCase(mockSource, mockGeocoder, store)
	videos, err := feedUseCase.GetCombinedVideos(context.Background(), []string{"ch1"}, 3, false)
	require.NoError(t, err)
	assert.Empty(t, videos)

	// An empty result is still a result: the next call is a cache hit.
	coldSource := new(MockVideoSource)
	cachedUseCase := usecase.NewFeedUseCase(coldSource, mockGeocoder, store)
	videos, err = cachedUseCase.GetCombinedVideos(context.Background(), []string{"ch1"}, 3, false)
	require.NoError(t, err)
	assert.Empty(t, videos)

	mockSource.AssertExpectations(t)
}

func TestFeedUseCase_FilterVideos(t *testing.T) {
	feedUseCase := usecase.NewFeedUseCase(nil, nil, newMemStore())
	videos := []model.Video{
		{ID: "a", ChannelID: "ch1", LocationCountry: "France"},
		{ID: "b", ChannelID: "ch2", LocationCountry: "france"},
		{ID: "c", ChannelID: "ch1", LocationCountry: "Germany"},
	}

	assert.Len(t, feedUseCase.FilterVideos(videos, "", ""), 3)
	assert.Len(t, feedUseCase.FilterVideos(videos, "ch1", ""), 2)

	// Country matching is case-insensitive.
	byCountry := feedUseCase.FilterVideos(videos, "", "FRANCE")
	require.Len(t, byCountry, 2)
	assert.Equal(t, "a", byCountry[0].ID)
	assert.Equal(t, "b", byCountry[1].ID)

	both := feedUseCase.FilterVideos(videos, "ch1", "france")
	require.Len(t, both, 1)
	assert.Equal(t, "a", both[0].ID)
}

func TestFeedUseCase_SortVideos(t *testing.T) {
	feedUseCase := usecase.NewFeedUseCase(nil, nil, newMemStore())
	videos := []model.Video{
		{ID: "a", PublishedAt: "2024-05-01T10:00:00Z", RecordingDate: "2024-06-10"},
		{ID: "b", PublishedAt: "2024-06-01T10:00:00Z", RecordingDate: "2024-04-10"},
		{ID: "c", PublishedAt: "", RecordingDate: ""},
	}

	asc := feedUseCase.SortVideos(videos, "published_at", "asc")
	assert.Equal(t, []string{"c", "a", "b"}, idsOf(asc))

	desc := feedUseCase.SortVideos(videos, "published_at", "desc")
	assert.Equal(t, []string{"b", "a", "c"}, idsOf(desc))

	byRecording := feedUseCase.SortVideos(videos, "recording_date", "desc")
	assert.Equal(t, []string{"a", "b", "c"}, idsOf(byRecording))

	// The input slice is never reordered in place.
	assert.Equal(t, []string{"a", "b", "c"}, idsOf(videos))
}

func TestFeedUseCase_Markers(t *testing.T) {
	feedUseCase := usecase.NewFeedUseCase(nil, nil, newMemStore())
	videos := []model.Video{
		{ID: "a", Title: "A", LocationLat: ptr(48.85), LocationLng: ptr(2.35), LocationCity: "Paris", LocationCountry: "France"},
		{ID: "b", LocationLat: ptr(45.75)}, // missing longitude
		{ID: "c"},
	}

	markers := feedUseCase.Markers(videos)
	require.Len(t, markers, 1)
	assert.Equal(t, "a", markers[0].ID)
	assert.Equal(t, 48.85, markers[0].Lat)
	assert.Equal(t, 2.35, markers[0].Lng)
	assert.Equal(t, "Paris", markers[0].City)
}

func idsOf(videos []model.Video) []string {
	ids := make([]string, len(videos))
	for i, v := range videos {
		ids[i] = v.ID
	}
	return ids
}
