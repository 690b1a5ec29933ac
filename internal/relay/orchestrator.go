package relay

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"soundrip/internal/cleanup"
	"soundrip/internal/config"
	"soundrip/internal/download"
	"soundrip/internal/fileutil"
	"soundrip/internal/journal"
	"soundrip/internal/logging"
	"soundrip/internal/resolve"
	"soundrip/internal/transcode"
	"soundrip/internal/transport"
	"soundrip/internal/workspace"
)

// User-facing status and error texts.
const (
	textReceived        = "Received your video, preparing the conversion"
	textDownloading     = "Downloading video"
	textTranscoding     = "Extracting audio"
	textSending         = "Conversion finished, sending the audio"
	textNoFFmpeg        = "ffmpeg is not installed on the server or cannot be run. Install it and try again."
	textDownloadFailed  = "Downloading the video failed. Send it again to retry."
	textTranscodeFailed = "Extracting audio failed: ffmpeg could not process this video."
	textSendFailed      = "Sending the audio failed. Try again later."
	textInternal        = "Processing failed unexpectedly. The file may be too large, or a network issue occurred. Try again later."

	fallbackStem = "audio"
)

// Request is one inbound video message to convert.
type Request struct {
	ChatID    int64
	MessageID int
	UserID    int64
	Video     transport.Video
}

// Fetcher streams a URL to a local file with progress callbacks.
type Fetcher interface {
	Fetch(ctx context.Context, url, destPath string, onProgress func(download.Progress)) error
}

// Transcoder runs the audio extraction for one input file.
type Transcoder interface {
	Transcode(ctx context.Context, inputPath, outputPath string, spec transcode.Spec) error
}

// Recorder persists finished request summaries. Satisfied by journal.Store.
type Recorder interface {
	Record(ctx context.Context, e journal.Entry) error
}

// Orchestrator drives one video message from resolution through delivery.
// It is safe for concurrent use; each Handle call owns its own state.
type Orchestrator struct {
	cfg        *config.Config
	messenger  transport.Messenger
	fetcher    Fetcher
	transcoder Transcoder
	cleaner    *cleanup.Manager
	recorder   Recorder
	logger     *slog.Logger
	ffmpegOK   func() bool
	now        func() time.Time
}

// Option customizes an Orchestrator.
type Option func(*Orchestrator)

// WithRecorder attaches a conversion journal.
func WithRecorder(recorder Recorder) Option {
	return func(o *Orchestrator) { o.recorder = recorder }
}

// WithLogger overrides the no-op default logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) { o.logger = logger }
}

// WithFFmpegCheck overrides the precondition probe. Tests use it to simulate
// a host without ffmpeg.
func WithFFmpegCheck(check func() bool) Option {
	return func(o *Orchestrator) { o.ffmpegOK = check }
}

func New(cfg *config.Config, messenger transport.Messenger, fetcher Fetcher, transcoder Transcoder, cleaner *cleanup.Manager, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		cfg:        cfg,
		messenger:  messenger,
		fetcher:    fetcher,
		transcoder: transcoder,
		cleaner:    cleaner,
		logger:     logging.NewNop(),
		ffmpegOK:   func() bool { return true },
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Handle runs the full conversion pipeline for one request. It never
// panics outward: unexpected failures are recovered, reported to the user
// as a generic retry message, and returned as an internal error outcome.
func (o *Orchestrator) Handle(ctx context.Context, req Request) (outcome Outcome) {
	logger := o.logger.With(
		logging.Int64(logging.FieldChatID, req.ChatID),
		logging.Int64(logging.FieldUserID, req.UserID),
		logging.String(logging.FieldFileID, req.Video.FileID),
	)
	start := o.now()
	status := newStatusNotifier(o.messenger, logger)

	defer func() {
		if r := recover(); r != nil {
			logger.Error("conversion panicked", logging.Any("panic", r))
			status.edit(ctx, textInternal)
			outcome = Outcome{Kind: KindInternalError, Diagnostic: fmt.Sprint(r)}
		}
		o.record(ctx, req, outcome, o.now().Sub(start))
		logger.Info("conversion finished",
			logging.String("outcome", outcome.Kind.String()),
			logging.Duration("duration", o.now().Sub(start)))
	}()

	if !o.ffmpegOK() {
		status.open(ctx, req.ChatID, req.MessageID, textNoFFmpeg)
		return Outcome{Kind: KindPreconditionFailed, Diagnostic: "ffmpeg unavailable"}
	}

	status.open(ctx, req.ChatID, req.MessageID, textReceived)
	status.action(ctx, req.ChatID, transport.ActionTyping)

	return o.convert(ctx, req, status, logger)
}

// convert performs the resolve, download, transcode and send stages. Split
// out of Handle so the recover and journal bookkeeping stay in one place.
func (o *Orchestrator) convert(ctx context.Context, req Request, status *statusNotifier, logger *slog.Logger) Outcome {
	sm := newMachine()
	o.advance(sm, StateResolving, logger)

	info, err := o.messenger.FileInfo(ctx, req.Video.FileID)
	if err != nil {
		logger.Error("file metadata lookup failed", logging.Error(err))
		status.edit(ctx, textInternal)
		o.advance(sm, StateFailed, logger)
		return Outcome{Kind: KindInternalError, Diagnostic: err.Error()}
	}

	src := resolve.Resolve(info.RemotePath, o.cfg.Telegram.CacheRoot, o.cfg.FileURLPrefix())
	logger.Info("source resolved",
		logging.String("kind", src.Kind.String()),
		logging.String("path", info.RemotePath))

	ws, err := workspace.New(o.cfg.Paths.StagingDir)
	if err != nil {
		logger.Error("workspace creation failed", logging.Error(err))
		status.edit(ctx, textInternal)
		o.advance(sm, StateFailed, logger)
		return Outcome{Kind: KindInternalError, Diagnostic: err.Error()}
	}
	defer ws.Remove(logger)

	outputName := fileutil.SuggestFilename(req.Video.FileName, fallbackStem, o.cfg.Audio.Extension)
	outputPath := ws.OutputPath(outputName)

	// Source and output removal runs on every exit path so transient files
	// never outlive the request, whichever stage it ends in.
	defer func() {
		o.cleaner.RemoveOutput(outputPath)
		o.cleaner.RemoveSource(src)
	}()

	inputPath := src.Path
	if src.Kind == resolve.KindRemote {
		o.advance(sm, StateDownloading, logger)
		status.edit(ctx, textDownloading)
		inputPath = ws.InputPath()
		if err := o.download(ctx, src, info, inputPath, status); err != nil {
			logger.Error("download failed", logging.Error(err))
			status.edit(ctx, textDownloadFailed)
			o.advance(sm, StateFailed, logger)
			return Outcome{Kind: KindDownloadFailed, Diagnostic: err.Error()}
		}
	}

	o.advance(sm, StateTranscoding, logger)
	status.edit(ctx, textTranscoding)

	spec := transcode.SpecFor(o.cfg.Audio.Extension, o.cfg.Audio.Bitrate)
	if err := o.transcoder.Transcode(ctx, inputPath, outputPath, spec); err != nil {
		logger.Error("transcode failed", logging.Error(err))
		status.edit(ctx, textTranscodeFailed)
		o.advance(sm, StateFailed, logger)
		return Outcome{Kind: KindTranscodeFailed, Diagnostic: err.Error()}
	}

	o.advance(sm, StateSending, logger)
	status.edit(ctx, textSending)
	status.action(ctx, req.ChatID, transport.ActionUploadDocument)

	caption := fmt.Sprintf("Audio extracted as %s", strings.ToUpper(o.cfg.Audio.Extension))
	if err := o.messenger.SendAudio(ctx, req.ChatID, req.MessageID, outputPath, caption); err != nil {
		logger.Warn("audio send rejected, retrying as document", logging.Error(err))
		if err := o.messenger.SendDocument(ctx, req.ChatID, req.MessageID, outputPath, caption); err != nil {
			logger.Error("document send failed", logging.Error(err))
			status.edit(ctx, textSendFailed)
			o.advance(sm, StateFailed, logger)
			return Outcome{Kind: KindSendFailed, Diagnostic: err.Error()}
		}
	}

	status.delete(ctx)
	o.advance(sm, StateDone, logger)
	return Outcome{Kind: KindSuccess, OutputName: outputName}
}

// download fetches a remote source into destPath. A source with a direct URL
// streams through the fetcher with throttled progress edits; without one the
// transport's own file endpoint is used and no progress is shown.
func (o *Orchestrator) download(ctx context.Context, src resolve.Source, info transport.FileInfo, destPath string, status *statusNotifier) error {
	if src.URL == "" {
		return o.messenger.DownloadToFile(ctx, info.RemotePath, destPath)
	}
	return o.fetcher.Fetch(ctx, src.URL, destPath, func(p download.Progress) {
		status.edit(ctx, textDownloading+": "+p.Describe())
	})
}

// advance moves the state machine and logs the new state. An illegal
// transition indicates a bug in the pipeline ordering, not a runtime
// condition, so it is logged and the state forced.
func (o *Orchestrator) advance(sm *machine, next State, logger *slog.Logger) {
	if err := sm.advance(next); err != nil {
		logger.Error("state machine violation", logging.Error(err))
		sm.current = next
		return
	}
	logger.Debug("state changed", logging.String(logging.FieldState, next.String()))
}

func (o *Orchestrator) record(ctx context.Context, req Request, outcome Outcome, duration time.Duration) {
	if o.recorder == nil {
		return
	}
	entry := journal.Entry{
		ChatID:     req.ChatID,
		UserID:     req.UserID,
		InputName:  req.Video.FileName,
		InputBytes: req.Video.Size,
		Outcome:    outcome.Kind.String(),
		Detail:     outcome.Diagnostic,
		Duration:   duration,
	}
	if err := o.recorder.Record(ctx, entry); err != nil {
		o.logger.Warn("journal write failed", logging.Error(err))
	}
}
