package optin

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/simplesurance/pinbump/internal/ghrepo"
	"github.com/simplesurance/pinbump/internal/optin/mocks"
)

var repo = ghrepo.Ref{Owner: "simplesurance", Name: "baseimages"}

func notFound(path string) error {
	return fmt.Errorf("reading %s failed: %w", path, ErrFileNotFound)
}

func newReaderWithFile(t *testing.T, path, content string) *mocks.MockContentReader {
	mockctrl := gomock.NewController(t)
	reader := mocks.NewMockContentReader(mockctrl)

	reader.EXPECT().FileContent(gomock.Any(), repo, path).Return([]byte(content), nil)

	return reader
}

func TestNoConfigFileIsNotOptedIn(t *testing.T) {
	t.Cleanup(zap.ReplaceGlobals(zaptest.NewLogger(t)))

	mockctrl := gomock.NewController(t)
	reader := mocks.NewMockContentReader(mockctrl)

	for _, p := range DefaultConfigPaths {
		reader.EXPECT().FileContent(gomock.Any(), repo, p).Return(nil, notFound(p))
	}

	assert.False(t, NewProbe().IsOptedIn(context.Background(), DefaultConfigPaths, repo, reader))
}

// TestFileWithoutEnabledKeyIsOptedIn ensures that the existence of a config
// file without an explicit "enabled" key counts as opted in while a
// repository without a config file does not.
func TestFileWithoutEnabledKeyIsOptedIn(t *testing.T) {
	t.Cleanup(zap.ReplaceGlobals(zaptest.NewLogger(t)))

	paths := []string{"renovate.json"}
	p := NewProbe()

	reader := newReaderWithFile(t, "renovate.json", `{"extends": ["config:base"]}`)
	assert.True(t, p.IsOptedIn(context.Background(), paths, repo, reader))

	mockctrl := gomock.NewController(t)
	missing := mocks.NewMockContentReader(mockctrl)
	missing.EXPECT().FileContent(gomock.Any(), repo, "renovate.json").Return(nil, notFound("renovate.json"))
	assert.False(t, p.IsOptedIn(context.Background(), paths, repo, missing))
}

func TestEnabledKey(t *testing.T) {
	tcs := []struct {
		name     string
		content  string
		expected bool
	}{
		{name: "enabled false", content: `{"enabled": false}`, expected: false},
		{name: "enabled true", content: `{"enabled": true}`, expected: true},
		{name: "unquoted key false", content: `{enabled: false}`, expected: false},
		{name: "unquoted key true", content: `{enabled: true}`, expected: true},
		{name: "key absent", content: `{other: 1}`, expected: true},
		{name: "empty object", content: `{}`, expected: true},
		{name: "enabled string", content: `{"enabled": "false"}`, expected: false},
		{name: "enabled number", content: `{"enabled": 1}`, expected: false},
		{
			name: "json5 with comments and trailing comma",
			content: `{
				// managed by platform team
				extends: ['config:base',],
				enabled: true,
			}`,
			expected: true,
		},
		{
			name: "block comment",
			content: `{
				/* opt-in requested in
				   PLAT-1234 */
				enabled: true,
			}`,
			expected: true,
		},
		{name: "block comment disabled", content: `{/* off */ enabled: false}`, expected: false},
		{name: "single quoted strings only", content: `{extends: ['config:base'], 'timezone': 'Europe/Berlin'}`, expected: true},
		{name: "single quoted key disabled", content: `{'enabled': false}`, expected: false},
		{name: "malformed", content: `{"enabled": fal`, expected: false},
		{name: "array", content: `[{"enabled": true}]`, expected: false},
		{name: "null", content: `null`, expected: false},
		{name: "empty file", content: ``, expected: false},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			t.Cleanup(zap.ReplaceGlobals(zaptest.NewLogger(t)))

			reader := newReaderWithFile(t, "renovate.json5", tc.content)
			result := NewProbe().IsOptedIn(context.Background(), []string{"renovate.json5"}, repo, reader)
			assert.Equal(t, tc.expected, result)
		})
	}
}

func TestFirstExistingFileWins(t *testing.T) {
	t.Cleanup(zap.ReplaceGlobals(zaptest.NewLogger(t)))

	mockctrl := gomock.NewController(t)
	reader := mocks.NewMockContentReader(mockctrl)

	gomock.InOrder(
		reader.EXPECT().FileContent(gomock.Any(), repo, "renovate.json").Return(nil, notFound("renovate.json")),
		reader.EXPECT().FileContent(gomock.Any(), repo, ".github/renovate.json").Return([]byte(`{"enabled": false}`), nil),
	)
	// .renovaterc is not read, the probe stops at the first existing file

	paths := []string{"renovate.json", ".github/renovate.json", ".renovaterc"}
	assert.False(t, NewProbe().IsOptedIn(context.Background(), paths, repo, reader))
}

func TestReadErrorIsNotOptedIn(t *testing.T) {
	t.Cleanup(zap.ReplaceGlobals(zaptest.NewLogger(t)))

	mockctrl := gomock.NewController(t)
	reader := mocks.NewMockContentReader(mockctrl)

	reader.EXPECT().FileContent(gomock.Any(), repo, "renovate.json").Return(nil, errors.New("connection reset by peer"))

	paths := []string{"renovate.json", ".renovaterc"}
	assert.False(t, NewProbe().IsOptedIn(context.Background(), paths, repo, reader))
}

func TestNoCandidatePaths(t *testing.T) {
	t.Cleanup(zap.ReplaceGlobals(zaptest.NewLogger(t)))

	mockctrl := gomock.NewController(t)
	reader := mocks.NewMockContentReader(mockctrl)

	assert.False(t, NewProbe().IsOptedIn(context.Background(), nil, repo, reader))
}
