// Package reset runs the interactive flow that gives the editor a new
// telemetry identity: sign out, quit the editor, rewrite the identifiers,
// sign in again.
package reset

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/graaaaa/machineid-reset/internal/config"
	"github.com/graaaaa/machineid-reset/internal/ids"
	"github.com/graaaaa/machineid-reset/internal/store"
)

// ProcessController finds and stops the editor process.
// platform.PlatformOps satisfies it.
type ProcessController interface {
	IsProcessRunning(ctx context.Context) bool
	TerminateProcess(ctx context.Context) error
}

// SettingsUpdater rewrites the JSON settings file.
// *settings.File satisfies it.
type SettingsUpdater interface {
	Path() string
	CheckAccess() error
	BackupAndUpdate(values map[string]string) (backupPath string, err error)
}

// DatabaseUpdater upserts identifiers into the state database.
type DatabaseUpdater interface {
	UpdateIDs(ctx context.Context, items map[string]string) error
}

// Generator produces a fresh identifier set.
// *ids.Generator satisfies it.
type Generator interface {
	Generate() (ids.Set, error)
}

// SQLiteDatabase returns a DatabaseUpdater that opens the database at path
// for each update and closes it afterwards.
func SQLiteDatabase(path string) DatabaseUpdater {
	return sqliteDatabase(path)
}

type sqliteDatabase string

func (p sqliteDatabase) UpdateIDs(ctx context.Context, items map[string]string) error {
	return store.UpdateIDsAt(ctx, string(p), items)
}

// Option configures a Resetter.
type Option func(*Resetter)

// WithIO sets the operator input and output.
func WithIO(in io.Reader, out io.Writer) Option {
	return func(r *Resetter) {
		r.console = newConsole(in, out)
	}
}

// WithGenerator sets the identifier generator.
func WithGenerator(g Generator) Option {
	return func(r *Resetter) {
		r.gen = g
	}
}

// WithSleep sets the function used for the fixed settling delays.
func WithSleep(sleep func(time.Duration)) Option {
	return func(r *Resetter) {
		r.sleep = sleep
	}
}

// WithDelays sets the grace window before termination and the pause after it.
func WithDelays(grace, settle time.Duration) Option {
	return func(r *Resetter) {
		r.grace = grace
		r.settle = settle
	}
}

// Resetter walks the reset flow once.
type Resetter struct {
	proc     ProcessController
	settings SettingsUpdater
	db       DatabaseUpdater
	gen      Generator
	console  *console
	sleep    func(time.Duration)
	grace    time.Duration
	settle   time.Duration

	state   State
	history []State
}

// New returns a Resetter. By default it talks to stdin/stdout, draws
// identifiers from crypto/rand and waits the default delays.
func New(proc ProcessController, st SettingsUpdater, db DatabaseUpdater, opts ...Option) *Resetter {
	r := &Resetter{
		proc:     proc,
		settings: st,
		db:       db,
		gen:      ids.NewGenerator(nil),
		console:  newConsole(os.Stdin, os.Stdout),
		sleep:    time.Sleep,
		grace:    config.DefaultGraceSeconds * time.Second,
		settle:   config.DefaultSettleSeconds * time.Second,
		state:    Start,
		history:  []State{Start},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// State returns the current state.
func (r *Resetter) State() State {
	return r.state
}

// History returns every state visited, in order.
func (r *Resetter) History() []State {
	return append([]State(nil), r.history...)
}

func (r *Resetter) advance(next State) error {
	if r.state.Terminal() || (next != AbortedWithError && next != r.state+1) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, r.state, next)
	}
	r.state = next
	r.history = append(r.history, next)
	return nil
}

// abort moves to AbortedWithError and passes err through.
func (r *Resetter) abort(err error) error {
	if !r.state.Terminal() {
		r.state = AbortedWithError
		r.history = append(r.history, AbortedWithError)
	}
	return err
}

// Run walks the whole flow. A handled reset failure yields ResetFailed with
// a nil error; any other failure is returned as an error.
func (r *Resetter) Run(ctx context.Context) (Outcome, error) {
	if r.state != Start {
		return ResetFailed, fmt.Errorf("%w: run from %s", ErrInvalidTransition, r.state)
	}

	r.printBanner()

	if err := r.InstructLogout(); err != nil {
		return ResetFailed, r.abort(err)
	}
	if err := r.CheckProcess(ctx); err != nil {
		return ResetFailed, r.abort(err)
	}
	if err := r.ConfirmExit(); err != nil {
		return ResetFailed, r.abort(err)
	}

	if _, err := r.ResetIDs(ctx); err != nil {
		if IsResetFailure(err) {
			r.console.println("", msgResetFailed)
			return ResetFailed, nil
		}
		return ResetFailed, r.abort(err)
	}

	if err := r.InstructLogin(); err != nil {
		return ResetFailed, r.abort(err)
	}
	if err := r.advance(Done); err != nil {
		return ResetFailed, r.abort(err)
	}
	return Completed, nil
}

// InstructLogout prints the sign-out steps and waits for the operator.
func (r *Resetter) InstructLogout() error {
	r.console.println(logoutLines...)
	if err := r.console.wait(promptLogout); err != nil {
		return err
	}
	return r.advance(LogoutInstructed)
}

// CheckProcess stops the editor if it is running. Detection is advisory:
// the flow continues whatever the outcome.
func (r *Resetter) CheckProcess(ctx context.Context) error {
	r.console.println("", msgStepExit, msgCheckingProcess)

	if r.proc.IsProcessRunning(ctx) {
		r.console.println(msgProcessFound)
		r.console.printf(msgSaveWork+"\n", int(r.grace/time.Second))
		r.sleep(r.grace)

		if err := r.proc.TerminateProcess(ctx); err != nil {
			log.Printf("Warning: failed to terminate process: %v", err)
			r.console.printf(msgTerminateFailed+"\n", err)
		}
		r.sleep(r.settle)

		if r.proc.IsProcessRunning(ctx) {
			r.console.println(msgStillRunning)
		}
	}

	return r.advance(ProcessChecked)
}

// ConfirmExit waits until the operator confirms the editor is closed.
func (r *Resetter) ConfirmExit() error {
	if err := r.console.wait(promptExit); err != nil {
		return err
	}
	return r.advance(ExitConfirmed)
}

// ResetIDs checks the settings file, generates a new identifier set and
// writes it to the settings file and then the database. The database is
// only touched when the settings update succeeded.
//
// A failure of either store leaves the flow in AbortedWithError.
// The database has no rollback: if it fails, the settings file already
// holds the new identifiers.
func (r *Resetter) ResetIDs(ctx context.Context) (ids.Set, error) {
	if r.state != ExitConfirmed {
		return ids.Set{}, fmt.Errorf("%w: reset from %s", ErrInvalidTransition, r.state)
	}

	r.console.println("", msgStepReset)
	r.console.printf(msgCheckingSettings+"\n", r.settings.Path())

	if err := r.settings.CheckAccess(); err != nil {
		r.console.printf(msgSettingsUnavailable+"\n", err)
		return ids.Set{}, r.abort(fmt.Errorf("%w: %w", ErrSettingsUnavailable, err))
	}

	if err := r.console.wait(promptReset); err != nil {
		return ids.Set{}, r.abort(err)
	}

	r.console.println(msgGenerating)
	set, err := r.gen.Generate()
	if err != nil {
		return ids.Set{}, r.abort(fmt.Errorf("generate identifiers: %w", err))
	}
	if err := set.Validate(); err != nil {
		return ids.Set{}, r.abort(fmt.Errorf("generate identifiers: %w", err))
	}
	values := set.Map()

	backup, err := r.settings.BackupAndUpdate(values)
	if err != nil {
		r.console.printf(msgSettingsFailed+"\n", err)
		return ids.Set{}, r.abort(fmt.Errorf("%w: %w", ErrSettingsUpdate, err))
	}
	r.console.printf(msgBackupSaved+"\n", backup)

	if err := r.db.UpdateIDs(ctx, values); err != nil {
		r.console.printf(msgDatabaseFailed+"\n", err)
		return ids.Set{}, r.abort(fmt.Errorf("%w: %w", ErrDatabaseUpdate, err))
	}

	r.console.println(msgResetDone, "", msgNewIDs)
	for _, k := range ids.Keys {
		r.console.printf("%s: %s\n", k, values[k])
	}

	if err := r.advance(IdentifiersReset); err != nil {
		return ids.Set{}, r.abort(err)
	}
	return set, nil
}

// InstructLogin prints the sign-in steps and waits for the operator.
func (r *Resetter) InstructLogin() error {
	r.console.println(loginLines...)
	if err := r.console.wait(promptLogin); err != nil {
		return err
	}
	return r.advance(LoginInstructed)
}

func (r *Resetter) printBanner() {
	r.console.println("", banner, bannerTitle, banner, bannerIntro, bannerFollow)
}
