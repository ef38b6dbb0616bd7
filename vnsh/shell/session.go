package shell

import (
	"context"
	"fmt"
	"strings"

	internal "github.com/ZanzyTHEbar/vnsh/vnsh"
	"github.com/ZanzyTHEbar/vnsh/vnsh/common"
	"github.com/ZanzyTHEbar/vnsh/vnsh/config"
	"github.com/ZanzyTHEbar/vnsh/vnsh/ports"
	"github.com/ZanzyTHEbar/vnsh/vnsh/trees"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Output lines
const (
	MsgExit             = "Exit application"
	MsgCurrentDirectory = "Current directory: "
	MsgUnrecognized     = "Unrecognized command"
	MsgDirectoryExists  = "Directory already exists"
	MsgFileExists       = "File already exists"
	MsgDirNotFound      = "Directory not found"
)

// Outcome is how a run ended.
type Outcome int

const (
	// OutcomeCompleted means every token was consumed.
	OutcomeCompleted Outcome = iota
	// OutcomeQuit means a quit command stopped the run.
	OutcomeQuit
	// OutcomeHalted means malformed input stopped the run.
	OutcomeHalted
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCompleted:
		return "completed"
	case OutcomeQuit:
		return "quit"
	case OutcomeHalted:
		return "halted"
	default:
		return "unknown"
	}
}

// Result summarizes one run. Err holds the parse failure when Outcome is OutcomeHalted.
type Result struct {
	Outcome  Outcome
	Err      error
	Commands int
	Lines    int
}

// Session owns one namespace tree and interprets token streams against it.
// A Session is not safe for concurrent use; independent runs need independent sessions.
type Session struct {
	id        uuid.UUID
	sink      ports.LineSink
	tree      *trees.DirectoryTree
	treeOpts  []trees.TreeOption
	cwd       trees.NodeID
	parser    *Parser
	maxName   int
	policy    config.DuplicatePolicy
	parentRef string
	logger    zerolog.Logger
	lines     int
}

// Option allows for customization of Session
type Option func(*Session)

// WithLogger sets a custom logger; the tree logs through it as well
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}

// WithDuplicatePolicy selects advisory or enforced name uniqueness
func WithDuplicatePolicy(policy config.DuplicatePolicy) Option {
	return func(s *Session) {
		s.policy = policy
	}
}

// WithMaxNameLength sets the longest name mkdir and touch accept
func WithMaxNameLength(n int) Option {
	return func(s *Session) {
		s.maxName = n
	}
}

// WithTreeOptions passes options through to every tree the session builds
func WithTreeOptions(opts ...trees.TreeOption) Option {
	return func(s *Session) {
		s.treeOpts = append(s.treeOpts, opts...)
	}
}

// WithConfig applies the shell section of a loaded configuration
func WithConfig(cfg config.ShellConfig) Option {
	return func(s *Session) {
		s.maxName = cfg.MaxNameLength
		s.policy = cfg.DuplicatePolicy
		s.treeOpts = append(s.treeOpts, trees.WithRootName(cfg.RootName), trees.WithSeparator(cfg.Separator))
	}
}

// NewSession creates a session writing its output to sink.
func NewSession(sink ports.LineSink, opts ...Option) *Session {
	s := &Session{
		id:        uuid.New(),
		sink:      sink,
		maxName:   internal.DefaultMaxNameLength,
		policy:    config.DuplicatePolicy(internal.DefaultDuplicatePolicy),
		parentRef: internal.DefaultParentRef,
		logger:    zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(s)
	}

	s.logger = s.logger.With().Str("session", s.id.String()).Logger()
	s.parser = NewParser(s.maxName)
	s.reset()

	return s
}

// ID returns the identifier attached to the session's log entries.
func (s *Session) ID() uuid.UUID {
	return s.id
}

// Tree returns the namespace built by the latest run.
func (s *Session) Tree() *trees.DirectoryTree {
	return s.tree
}

// Cwd returns the current directory.
func (s *Session) Cwd() trees.NodeID {
	return s.cwd
}

// Run interprets tokens against a fresh tree. Parse failures are reported on the
// sink and in the Result; the returned error is only set when the sink fails or
// ctx is done.
func (s *Session) Run(ctx context.Context, tokens []string) (res Result, err error) {
	s.reset()
	res.Outcome = OutcomeCompleted
	defer func() {
		res.Lines = s.lines
		s.logSummary(res)
	}()

	s.logger.Debug().Int("tokens", len(tokens)).Msg("starting run")

	for pos := 0; pos < len(tokens); {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return res, ctxErr
		}

		cmd, n, parseErr := s.parser.Parse(tokens, pos)
		if parseErr != nil && !common.IsFatal(parseErr) {
			return res, parseErr
		}
		if parseErr != nil {
			s.logger.Warn().Err(parseErr).Int("position", pos).Msg("halting on malformed input")
			res.Outcome = OutcomeHalted
			res.Err = parseErr
			return res, s.emit(MsgUnrecognized)
		}

		res.Commands++
		s.logger.Debug().
			Str("command", cmd.Keyword()).
			Int("position", pos).
			Int("consumed", n).
			Msg("dispatching command")

		stop, execErr := s.Execute(ctx, cmd)
		if execErr != nil {
			return res, execErr
		}
		if stop {
			res.Outcome = OutcomeQuit
			return res, nil
		}

		pos += n
	}

	return res, nil
}

// Execute applies one command to the session. It reports whether the run should stop.
func (s *Session) Execute(ctx context.Context, cmd Command) (bool, error) {
	switch c := cmd.(type) {
	case Quit:
		return true, s.emit(MsgExit)
	case Pwd:
		return false, s.emit(MsgCurrentDirectory + s.tree.FullPath(s.cwd))
	case List:
		return false, s.list(ctx, c)
	case MakeDir:
		return false, s.makeDir(c.Name)
	case ChangeDir:
		return false, s.changeDir(c.Target)
	case Touch:
		return false, s.touch(c.Name)
	default:
		return false, fmt.Errorf("unsupported command %T", cmd)
	}
}

func (s *Session) makeDir(name string) error {
	if _, exists := s.tree.FindChildByName(s.cwd, name); exists {
		if err := s.emit(MsgDirectoryExists); err != nil {
			return err
		}
		if s.policy == config.DuplicateEnforce {
			return nil
		}
	}

	_, err := s.tree.AddChildDirectory(s.cwd, name)
	return err
}

func (s *Session) touch(name string) error {
	if s.tree.HasFile(s.cwd, name) {
		if err := s.emit(MsgFileExists); err != nil {
			return err
		}
		if s.policy == config.DuplicateEnforce {
			return nil
		}
	}

	return s.tree.AddFile(s.cwd, name)
}

// changeDir handles "..", separator paths anchored at the current directory, and
// single child names.
func (s *Session) changeDir(target string) error {
	if target == s.parentRef {
		// At the root this is a silent no-op.
		if parent, ok := s.tree.Parent(s.cwd); ok {
			s.cwd = parent
		}
		return nil
	}

	var (
		next  trees.NodeID
		found bool
	)
	if strings.Contains(target, s.tree.Separator()) {
		next, found = s.tree.ResolvePath(s.cwd, target)
	} else {
		next, found = s.tree.FindChildByName(s.cwd, target)
	}

	if !found {
		s.logger.Debug().Str("target", target).Msg("cd target not found")
		return s.emit(MsgDirNotFound)
	}

	s.cwd = next
	return nil
}

func (s *Session) emit(line string) error {
	if err := s.sink.WriteLine(line); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	s.lines++
	return nil
}

func (s *Session) reset() {
	opts := append([]trees.TreeOption{trees.WithLogger(s.logger)}, s.treeOpts...)
	s.tree = trees.NewDirectoryTree(opts...)
	s.cwd = s.tree.Root()
	s.lines = 0
}

func (s *Session) logSummary(res Result) {
	metrics := s.tree.GetMetrics()
	event := s.logger.Debug().
		Str("outcome", res.Outcome.String()).
		Int("commands", res.Commands).
		Int("lines", res.Lines).
		Int64("directories", metrics.TotalNodes).
		Int64("files", metrics.TotalFiles).
		Int("max_depth", metrics.MaxDepth)
	if stats, ok := s.tree.IndexStats(); ok {
		event = event.
			Int64("index_lookups", stats.PathLookups).
			Int64("index_hits", stats.Hits)
	}
	event.Msg("run finished")
}
