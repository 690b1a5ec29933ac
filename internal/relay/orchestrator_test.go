package relay

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"soundrip/internal/cleanup"
	"soundrip/internal/config"
	"soundrip/internal/download"
	"soundrip/internal/journal"
	"soundrip/internal/logging"
	"soundrip/internal/testsupport"
	"soundrip/internal/transcode"
	"soundrip/internal/transport"
)

type fakeMessenger struct {
	mu sync.Mutex

	fileInfo    transport.FileInfo
	fileInfoErr error
	panicOnInfo bool

	replyErr    error
	audioErr    error
	documentErr error
	downloadErr error

	infoCalls     int
	replies       []string
	edits         []string
	deletes       int
	audioPaths    []string
	documentPaths []string
	actions       []string
	downloads     []string
	downloadBody  []byte
}

func (f *fakeMessenger) FileInfo(ctx context.Context, fileID string) (transport.FileInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.infoCalls++
	if f.panicOnInfo {
		panic("transport exploded")
	}
	return f.fileInfo, f.fileInfoErr
}

func (f *fakeMessenger) SendReply(ctx context.Context, chatID int64, replyTo int, text string) (transport.MessageRef, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.replyErr != nil {
		return transport.MessageRef{}, f.replyErr
	}
	f.replies = append(f.replies, text)
	return transport.MessageRef{ChatID: chatID, MessageID: 1000 + len(f.replies)}, nil
}

func (f *fakeMessenger) EditText(ctx context.Context, ref transport.MessageRef, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.edits = append(f.edits, text)
	return nil
}

func (f *fakeMessenger) Delete(ctx context.Context, ref transport.MessageRef) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes++
	return nil
}

func (f *fakeMessenger) SendAudio(ctx context.Context, chatID int64, replyTo int, path, caption string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.audioErr != nil {
		return f.audioErr
	}
	f.audioPaths = append(f.audioPaths, path)
	return nil
}

func (f *fakeMessenger) SendDocument(ctx context.Context, chatID int64, replyTo int, path, caption string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.documentErr != nil {
		return f.documentErr
	}
	f.documentPaths = append(f.documentPaths, path)
	return nil
}

func (f *fakeMessenger) SendChatAction(ctx context.Context, chatID int64, action string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.actions = append(f.actions, action)
	return nil
}

func (f *fakeMessenger) DownloadToFile(ctx context.Context, remotePath, destPath string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.downloadErr != nil {
		return f.downloadErr
	}
	f.downloads = append(f.downloads, remotePath)
	return os.WriteFile(destPath, f.downloadBody, 0o644)
}

type stubTranscoder struct {
	err   error
	calls []transcode.Spec
}

func (s *stubTranscoder) Transcode(ctx context.Context, inputPath, outputPath string, spec transcode.Spec) error {
	s.calls = append(s.calls, spec)
	if s.err != nil {
		return s.err
	}
	if _, err := os.Stat(inputPath); err != nil {
		return fmt.Errorf("input missing: %w", err)
	}
	return os.WriteFile(outputPath, []byte("audio-bytes"), 0o644)
}

type stubFetcher struct {
	err   error
	calls []string
}

func (s *stubFetcher) Fetch(ctx context.Context, url, destPath string, onProgress func(download.Progress)) error {
	s.calls = append(s.calls, url)
	if s.err != nil {
		return s.err
	}
	return os.WriteFile(destPath, []byte("fetched"), 0o644)
}

type captureRecorder struct {
	entries []journal.Entry
}

func (c *captureRecorder) Record(ctx context.Context, e journal.Entry) error {
	c.entries = append(c.entries, e)
	return nil
}

func newTestOrchestrator(t *testing.T, cfg *config.Config, messenger *fakeMessenger, fetcher Fetcher, transcoder Transcoder, opts ...Option) *Orchestrator {
	t.Helper()
	cleaner := cleanup.NewManager(cfg.Telegram.CacheRoot, cfg.Telegram.Token, true, true, logging.NewNop())
	return New(cfg, messenger, fetcher, transcoder, cleaner, opts...)
}

func request(fileName string) Request {
	return Request{
		ChatID:    42,
		MessageID: 7,
		UserID:    99,
		Video:     transport.Video{FileID: "file-1", FileName: fileName, Size: 2048},
	}
}

func stagingEntries(t *testing.T, cfg *config.Config) int {
	t.Helper()
	entries, err := os.ReadDir(cfg.Paths.StagingDir)
	if err != nil {
		t.Fatalf("read staging dir: %v", err)
	}
	return len(entries)
}

func TestHandleLocalSourceSuccess(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	sourcePath := filepath.Join(cfg.Telegram.CacheRoot, cfg.Telegram.Token, "videos", "clip.mp4")
	testsupport.WriteFile(t, sourcePath, []byte("video-bytes"))

	messenger := &fakeMessenger{fileInfo: transport.FileInfo{RemotePath: sourcePath, Size: 11}}
	transcoder := &stubTranscoder{}
	recorder := &captureRecorder{}
	orch := newTestOrchestrator(t, cfg, messenger, &stubFetcher{}, transcoder, WithRecorder(recorder))

	outcome := orch.Handle(context.Background(), request("clip.mp4"))

	if outcome.Kind != KindSuccess {
		t.Fatalf("outcome = %s, want success (diag %q)", outcome.Kind, outcome.Diagnostic)
	}
	if outcome.OutputName != "clip.mp3" {
		t.Fatalf("output name = %q, want clip.mp3", outcome.OutputName)
	}
	if len(messenger.audioPaths) != 1 || len(messenger.documentPaths) != 0 {
		t.Fatalf("sends = %d audio, %d document, want 1 audio only",
			len(messenger.audioPaths), len(messenger.documentPaths))
	}
	if messenger.deletes != 1 {
		t.Fatalf("status deletes = %d, want 1", messenger.deletes)
	}
	if len(transcoder.calls) != 1 {
		t.Fatalf("transcoder calls = %d, want 1", len(transcoder.calls))
	}
	if testsupport.FileExists(t, sourcePath) {
		t.Fatal("cached source survived cleanup")
	}
	if got := stagingEntries(t, cfg); got != 0 {
		t.Fatalf("staging entries after handle = %d, want 0", got)
	}
	if len(recorder.entries) != 1 || recorder.entries[0].Outcome != "success" {
		t.Fatalf("journal entries = %+v, want one success", recorder.entries)
	}
}

func TestHandleRemoteDownloadWithProgress(t *testing.T) {
	payload := bytes.Repeat([]byte("v"), 200*1024)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", fmt.Sprint(len(payload)))
		_, _ = w.Write(payload)
	}))
	defer server.Close()

	cfg := testsupport.NewConfig(t, testsupport.WithFileBaseURL(server.URL))
	messenger := &fakeMessenger{fileInfo: transport.FileInfo{RemotePath: "videos/clip_1.mp4", Size: int64(len(payload))}}
	transcoder := &stubTranscoder{}
	fetcher := download.New(server.Client(), download.WithProgressInterval(time.Millisecond))
	orch := newTestOrchestrator(t, cfg, messenger, fetcher, transcoder)

	outcome := orch.Handle(context.Background(), request("clip.mp4"))

	if outcome.Kind != KindSuccess {
		t.Fatalf("outcome = %s, want success (diag %q)", outcome.Kind, outcome.Diagnostic)
	}
	var progressEdits int
	for _, edit := range messenger.edits {
		if strings.HasPrefix(edit, textDownloading+":") {
			progressEdits++
		}
	}
	if progressEdits == 0 {
		t.Fatalf("no progress edits among %q", messenger.edits)
	}
	if len(messenger.downloads) != 0 {
		t.Fatal("transport fallback used despite direct URL")
	}
	if got := stagingEntries(t, cfg); got != 0 {
		t.Fatalf("staging entries after handle = %d, want 0", got)
	}
}

func TestHandleRemoteFallsBackToTransportDownload(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	if cfg.FileURLPrefix() != "" {
		t.Fatalf("expected no direct URL prefix, got %q", cfg.FileURLPrefix())
	}
	messenger := &fakeMessenger{
		fileInfo:     transport.FileInfo{RemotePath: "videos/clip_1.mp4", Size: 7},
		downloadBody: []byte("via-api"),
	}
	fetcher := &stubFetcher{err: errors.New("must not be called")}
	orch := newTestOrchestrator(t, cfg, messenger, fetcher, &stubTranscoder{})

	outcome := orch.Handle(context.Background(), request("clip.mp4"))

	if outcome.Kind != KindSuccess {
		t.Fatalf("outcome = %s, want success (diag %q)", outcome.Kind, outcome.Diagnostic)
	}
	if len(messenger.downloads) != 1 || messenger.downloads[0] != "videos/clip_1.mp4" {
		t.Fatalf("transport downloads = %q, want videos/clip_1.mp4", messenger.downloads)
	}
	if len(fetcher.calls) != 0 {
		t.Fatal("direct fetcher called without a URL")
	}
}

func TestHandleMissingFFmpeg(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	messenger := &fakeMessenger{}
	orch := newTestOrchestrator(t, cfg, messenger, &stubFetcher{}, &stubTranscoder{},
		WithFFmpegCheck(func() bool { return false }))

	outcome := orch.Handle(context.Background(), request("clip.mp4"))

	if outcome.Kind != KindPreconditionFailed {
		t.Fatalf("outcome = %s, want precondition_failed", outcome.Kind)
	}
	if len(messenger.replies) != 1 || messenger.replies[0] != textNoFFmpeg {
		t.Fatalf("replies = %q, want the ffmpeg notice", messenger.replies)
	}
	if messenger.infoCalls != 0 {
		t.Fatal("file metadata requested despite failed precondition")
	}
}

func TestHandleDownloadFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	cfg := testsupport.NewConfig(t, testsupport.WithFileBaseURL(server.URL))
	messenger := &fakeMessenger{fileInfo: transport.FileInfo{RemotePath: "videos/clip_1.mp4"}}
	fetcher := download.New(server.Client())
	orch := newTestOrchestrator(t, cfg, messenger, fetcher, &stubTranscoder{})

	outcome := orch.Handle(context.Background(), request("clip.mp4"))

	if outcome.Kind != KindDownloadFailed {
		t.Fatalf("outcome = %s, want download_failed", outcome.Kind)
	}
	if len(messenger.edits) == 0 || messenger.edits[len(messenger.edits)-1] != textDownloadFailed {
		t.Fatalf("final edit = %q, want download failure notice", messenger.edits)
	}
	if messenger.deletes != 0 {
		t.Fatal("status message deleted on failure")
	}
	if got := stagingEntries(t, cfg); got != 0 {
		t.Fatalf("staging entries after handle = %d, want 0", got)
	}
}

func TestHandleTranscodeFailureRemovesSource(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	sourcePath := filepath.Join(cfg.Telegram.CacheRoot, cfg.Telegram.Token, "videos", "clip.mp4")
	testsupport.WriteFile(t, sourcePath, []byte("video-bytes"))

	messenger := &fakeMessenger{fileInfo: transport.FileInfo{RemotePath: sourcePath}}
	transcoder := &stubTranscoder{err: errors.New("stream #0 has no audio")}
	orch := newTestOrchestrator(t, cfg, messenger, &stubFetcher{}, transcoder)

	outcome := orch.Handle(context.Background(), request("clip.mp4"))

	if outcome.Kind != KindTranscodeFailed {
		t.Fatalf("outcome = %s, want transcode_failed", outcome.Kind)
	}
	if len(messenger.edits) == 0 || messenger.edits[len(messenger.edits)-1] != textTranscodeFailed {
		t.Fatalf("final edit = %q, want transcode failure notice", messenger.edits)
	}
	if len(messenger.audioPaths) != 0 {
		t.Fatal("audio sent after failed transcode")
	}
	if testsupport.FileExists(t, sourcePath) {
		t.Fatal("cached source survived cleanup after transcode failure")
	}
}

func TestHandleAudioRejectedFallsBackToDocument(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	sourcePath := filepath.Join(cfg.Telegram.CacheRoot, cfg.Telegram.Token, "videos", "clip.mp4")
	testsupport.WriteFile(t, sourcePath, []byte("video-bytes"))

	messenger := &fakeMessenger{
		fileInfo: transport.FileInfo{RemotePath: sourcePath},
		audioErr: errors.New("AUDIO_CONTENT_TYPE_INVALID"),
	}
	orch := newTestOrchestrator(t, cfg, messenger, &stubFetcher{}, &stubTranscoder{})

	outcome := orch.Handle(context.Background(), request("clip.mp4"))

	if outcome.Kind != KindSuccess {
		t.Fatalf("outcome = %s, want success (diag %q)", outcome.Kind, outcome.Diagnostic)
	}
	if len(messenger.documentPaths) != 1 {
		t.Fatalf("document sends = %d, want 1", len(messenger.documentPaths))
	}
	if messenger.deletes != 1 {
		t.Fatalf("status deletes = %d, want 1", messenger.deletes)
	}
}

func TestHandleBothSendsFail(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	sourcePath := filepath.Join(cfg.Telegram.CacheRoot, cfg.Telegram.Token, "videos", "clip.mp4")
	testsupport.WriteFile(t, sourcePath, []byte("video-bytes"))

	messenger := &fakeMessenger{
		fileInfo:    transport.FileInfo{RemotePath: sourcePath},
		audioErr:    errors.New("too large"),
		documentErr: errors.New("too large"),
	}
	orch := newTestOrchestrator(t, cfg, messenger, &stubFetcher{}, &stubTranscoder{})

	outcome := orch.Handle(context.Background(), request("clip.mp4"))

	if outcome.Kind != KindSendFailed {
		t.Fatalf("outcome = %s, want send_failed", outcome.Kind)
	}
	if len(messenger.edits) == 0 || messenger.edits[len(messenger.edits)-1] != textSendFailed {
		t.Fatalf("final edit = %q, want send failure notice", messenger.edits)
	}
	if got := stagingEntries(t, cfg); got != 0 {
		t.Fatalf("staging entries after handle = %d, want 0", got)
	}
}

func TestHandleRecoversFromPanic(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	messenger := &fakeMessenger{panicOnInfo: true}
	recorder := &captureRecorder{}
	orch := newTestOrchestrator(t, cfg, messenger, &stubFetcher{}, &stubTranscoder{},
		WithRecorder(recorder))

	outcome := orch.Handle(context.Background(), request("clip.mp4"))

	if outcome.Kind != KindInternalError {
		t.Fatalf("outcome = %s, want internal_error", outcome.Kind)
	}
	if len(messenger.edits) == 0 || messenger.edits[len(messenger.edits)-1] != textInternal {
		t.Fatalf("final edit = %q, want generic retry notice", messenger.edits)
	}
	if len(recorder.entries) != 1 || recorder.entries[0].Outcome != "internal_error" {
		t.Fatalf("journal entries = %+v, want one internal_error", recorder.entries)
	}
}

func TestHandleUnnamedVideoGetsFallbackName(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithAudio("opus", "96k"))
	sourcePath := filepath.Join(cfg.Telegram.CacheRoot, cfg.Telegram.Token, "videos", "note.mp4")
	testsupport.WriteFile(t, sourcePath, []byte("video-bytes"))

	messenger := &fakeMessenger{fileInfo: transport.FileInfo{RemotePath: sourcePath}}
	orch := newTestOrchestrator(t, cfg, messenger, &stubFetcher{}, &stubTranscoder{})

	outcome := orch.Handle(context.Background(), request(""))

	if outcome.Kind != KindSuccess {
		t.Fatalf("outcome = %s, want success (diag %q)", outcome.Kind, outcome.Diagnostic)
	}
	if outcome.OutputName != "audio.opus" {
		t.Fatalf("output name = %q, want audio.opus", outcome.OutputName)
	}
}
