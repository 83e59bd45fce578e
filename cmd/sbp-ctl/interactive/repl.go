// Package interactive provides the interactive command-line interface
// for sbp-ctl.
package interactive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/chzyer/readline"

	"github.com/sbp-robotics/sbp-go/pkg/scan"
	"github.com/sbp-robotics/sbp-go/pkg/session"
	"github.com/sbp-robotics/sbp-go/pkg/transport"
)

// connectTimeout bounds a single connection attempt.
const connectTimeout = 15 * time.Second

// Config wires the REPL to a transport.
type Config struct {
	// Transport scans for and connects to toys.
	Transport transport.Transport

	// ScanTimeout bounds each discovery scan.
	ScanTimeout time.Duration

	// Aliases maps short names to endpoints.
	Aliases map[string]string

	// DefaultEndpoint, if set, is connected to when Run starts.
	DefaultEndpoint string

	// SessionOptions are applied to the session in addition to the
	// REPL's own state display callback.
	SessionOptions []session.Option
}

// REPL handles interactive mode for sbp-ctl.
type REPL struct {
	config  Config
	scanner *scan.Scanner
	session *session.Session
	rl      *readline.Instance

	mu       sync.Mutex
	lastScan []scan.Device
}

// New creates a new interactive handler.
func New(cfg Config) (*REPL, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "sbp> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}

	r := &REPL{
		config:  cfg,
		scanner: scan.NewScanner(cfg.Transport),
		rl:      rl,
	}

	opts := append([]session.Option{}, cfg.SessionOptions...)
	opts = append(opts, session.WithStateCallback(r.showStateChange))
	r.session = session.New(cfg.Transport, opts...)

	return r, nil
}

// Stdout returns a writer that properly coordinates with the readline input.
// Use this for log output to avoid interfering with the command prompt.
func (r *REPL) Stdout() io.Writer {
	return r.rl.Stdout()
}

// Close disconnects the session and releases the terminal.
func (r *REPL) Close() error {
	err := r.session.Disconnect()
	if closeErr := r.rl.Close(); err == nil {
		err = closeErr
	}
	return err
}

// Run starts the interactive command loop.
func (r *REPL) Run(ctx context.Context, cancel context.CancelFunc) {
	r.printHelp()

	if r.config.DefaultEndpoint != "" {
		r.cmdConnect([]string{r.config.DefaultEndpoint})
	}

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line, err := r.rl.Readline()
		if err != nil {
			// EOF or interrupt
			if err == readline.ErrInterrupt {
				continue
			}
			fmt.Fprintln(r.rl.Stdout(), "Exiting...")
			cancel()
			return
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}

		parts := strings.Fields(input)
		cmd := strings.ToLower(parts[0])
		args := parts[1:]

		switch cmd {
		case "help", "?":
			r.printHelp()

		case "scan", "s":
			r.cmdScan()

		case "connect", "c":
			r.cmdConnect(args)

		case "wake":
			r.cmdWake()

		case "drive", "d":
			r.cmdDrive(args)

		case "led":
			r.cmdLED(args)

		case "pixel", "px":
			r.cmdPixel(args)

		case "stop":
			r.cmdDrive([]string{"0", "0"})

		case "state", "st":
			r.cmdState()

		case "disconnect", "dc":
			r.cmdDisconnect()

		case "quit", "exit", "q":
			fmt.Fprintln(r.rl.Stdout(), "Exiting...")
			cancel()
			return

		default:
			fmt.Fprintf(r.rl.Stdout(), "Unknown command: %s (type 'help' for commands)\n", cmd)
		}
	}
}

func (r *REPL) printHelp() {
	fmt.Fprintln(r.rl.Stdout(), `
BOLT Plus Commands:
  Discovery:
    scan                    - Scan for nearby toys (strongest signal first)
    connect [target]        - Connect and wake a toy; target is an endpoint,
                              an alias, a toy name (SB-...), or a scan index.
                              With no target the nearest toy is used.

  Control:
    wake                    - Resend the wake command
    drive <speed> <heading> [reverse] - Drive (speed 0-255, heading 0-359)
    stop                    - Stop driving
    led <r> <g> <b>         - Set the main LED color (0-255 per channel)
    pixel <x> <y> <r> <g> <b> - Light one matrix pixel (x,y in 0-7)

  General:
    state                   - Show session state
    disconnect              - Disconnect from the toy
    help                    - Show this help
    quit                    - Exit`)
}

// showStateChange displays session state transitions asynchronously.
func (r *REPL) showStateChange(oldState, newState session.State) {
	fmt.Fprintf(r.rl.Stdout(), "\n[%s] %s -> %s\n",
		time.Now().Format("15:04:05"), oldState, newState)
	r.rl.Refresh()
}

// cmdScan handles the scan command.
func (r *REPL) cmdScan() {
	timeout := r.config.ScanTimeout
	if timeout <= 0 {
		timeout = scan.DefaultTimeout
	}
	fmt.Fprintf(r.rl.Stdout(), "Scanning for %s...\n", timeout)

	devices, err := r.scanner.Scan(context.Background(), timeout)
	if err != nil {
		fmt.Fprintf(r.rl.Stdout(), "Scan failed: %v\n", err)
		return
	}
	if len(devices) == 0 {
		fmt.Fprintln(r.rl.Stdout(), "No toys found")
		return
	}

	r.mu.Lock()
	r.lastScan = devices
	r.mu.Unlock()

	fmt.Fprintf(r.rl.Stdout(), "\nFound %d toy(s):\n", len(devices))
	for i, d := range devices {
		fmt.Fprintf(r.rl.Stdout(), "  %d) %-10s %-24s %4d dBm  ~%.1f m\n",
			i+1, d.Name, d.Endpoint, d.RSSI, d.ApproxDistance)
	}
	fmt.Fprintln(r.rl.Stdout(), "\nUse 'connect <number>' to connect")
}

// cmdConnect handles the connect command.
func (r *REPL) cmdConnect(args []string) {
	target := ""
	if len(args) > 0 {
		target = args[0]
	}

	endpoint, err := r.resolveTarget(target)
	if err != nil {
		fmt.Fprintf(r.rl.Stdout(), "Error: %v\n", err)
		return
	}

	fmt.Fprintf(r.rl.Stdout(), "Connecting to %s...\n", endpoint)

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	if err := r.session.Connect(ctx, endpoint); err != nil {
		fmt.Fprintf(r.rl.Stdout(), "Connect failed: %v\n", err)
		return
	}

	if r.session.IsAwake() {
		fmt.Fprintln(r.rl.Stdout(), "Connected and awake - ready to drive")
	} else {
		fmt.Fprintln(r.rl.Stdout(), "Connected but still asleep - try 'wake'")
	}
}

// resolveTarget turns a connect argument into an endpoint. It accepts an
// index into the last scan, an alias, a toy name, or a raw endpoint; with
// no argument it falls back to the configured default or a fresh scan.
func (r *REPL) resolveTarget(target string) (string, error) {
	if target == "" {
		devices, err := r.scanner.Scan(context.Background(), r.config.ScanTimeout)
		if err != nil {
			return "", fmt.Errorf("scan: %w", err)
		}
		if len(devices) == 0 {
			return "", errors.New("no toys found; is one powered on nearby?")
		}
		fmt.Fprintf(r.rl.Stdout(), "Using nearest toy %s\n", devices[0].Name)
		return devices[0].Endpoint, nil
	}

	if n, err := strconv.Atoi(target); err == nil {
		r.mu.Lock()
		defer r.mu.Unlock()
		if n < 1 || n > len(r.lastScan) {
			return "", fmt.Errorf("scan index %d out of range; run 'scan' first", n)
		}
		return r.lastScan[n-1].Endpoint, nil
	}

	if endpoint, ok := r.config.Aliases[target]; ok {
		return endpoint, nil
	}

	if strings.HasPrefix(target, scan.NamePrefix) {
		device, err := r.scanner.FindByName(context.Background(), r.config.ScanTimeout, target)
		if err != nil {
			return "", err
		}
		return device.Endpoint, nil
	}

	return target, nil
}

// cmdWake handles the wake command.
func (r *REPL) cmdWake() {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	if err := r.session.Wake(ctx); err != nil {
		r.printCommandError(err)
		return
	}
	fmt.Fprintln(r.rl.Stdout(), "Toy is awake")
}

// cmdDrive handles the drive command.
func (r *REPL) cmdDrive(args []string) {
	if len(args) < 2 {
		fmt.Fprintln(r.rl.Stdout(), "Usage: drive <speed> <heading> [reverse]")
		fmt.Fprintln(r.rl.Stdout(), "  Example: drive 128 90")
		return
	}

	speed, err := strconv.Atoi(args[0])
	if err != nil {
		fmt.Fprintf(r.rl.Stdout(), "Invalid speed: %v\n", err)
		return
	}
	heading, err := strconv.Atoi(args[1])
	if err != nil {
		fmt.Fprintf(r.rl.Stdout(), "Invalid heading: %v\n", err)
		return
	}

	reverse := false
	if len(args) >= 3 {
		switch strings.ToLower(args[2]) {
		case "reverse", "rev", "back":
			reverse = true
		default:
			fmt.Fprintf(r.rl.Stdout(), "Unknown direction %q (use 'reverse')\n", args[2])
			return
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	if err := r.session.Drive(ctx, speed, heading, reverse); err != nil {
		r.printCommandError(err)
		return
	}

	direction := "forward"
	if reverse {
		direction = "reverse"
	}
	fmt.Fprintf(r.rl.Stdout(), "Driving %s at speed %d, heading %d\n", direction, speed, heading)
}

// cmdLED handles the led command.
func (r *REPL) cmdLED(args []string) {
	if len(args) < 3 {
		fmt.Fprintln(r.rl.Stdout(), "Usage: led <r> <g> <b>")
		fmt.Fprintln(r.rl.Stdout(), "  Example: led 255 0 128")
		return
	}

	rgb, err := parseInts(args[:3])
	if err != nil {
		fmt.Fprintf(r.rl.Stdout(), "Invalid color: %v\n", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	if err := r.session.SetMainLED(ctx, rgb[0], rgb[1], rgb[2]); err != nil {
		r.printCommandError(err)
		return
	}
	fmt.Fprintf(r.rl.Stdout(), "Main LED set to (%d, %d, %d)\n", rgb[0], rgb[1], rgb[2])
}

// cmdPixel handles the pixel command.
func (r *REPL) cmdPixel(args []string) {
	if len(args) < 5 {
		fmt.Fprintln(r.rl.Stdout(), "Usage: pixel <x> <y> <r> <g> <b>")
		fmt.Fprintln(r.rl.Stdout(), "  Example: pixel 3 4 0 255 0")
		return
	}

	vals, err := parseInts(args[:5])
	if err != nil {
		fmt.Fprintf(r.rl.Stdout(), "Invalid argument: %v\n", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	if err := r.session.SetMatrixLED(ctx, vals[0], vals[1], vals[2], vals[3], vals[4]); err != nil {
		r.printCommandError(err)
		return
	}
	fmt.Fprintf(r.rl.Stdout(), "Pixel (%d, %d) set to (%d, %d, %d)\n",
		vals[0], vals[1], vals[2], vals[3], vals[4])
}

// cmdState shows the session status.
func (r *REPL) cmdState() {
	fmt.Fprintln(r.rl.Stdout(), "\nSession Status")
	fmt.Fprintln(r.rl.Stdout(), "-------------------------------------------")
	fmt.Fprintf(r.rl.Stdout(), "  Session ID: %s\n", r.session.ID())
	fmt.Fprintf(r.rl.Stdout(), "  State:      %s\n", r.session.State())
	if endpoint := r.session.Endpoint(); endpoint != "" {
		fmt.Fprintf(r.rl.Stdout(), "  Endpoint:   %s\n", endpoint)
	}
	fmt.Fprintln(r.rl.Stdout())
}

// cmdDisconnect handles the disconnect command.
func (r *REPL) cmdDisconnect() {
	if err := r.session.Disconnect(); err != nil {
		fmt.Fprintf(r.rl.Stdout(), "Disconnect failed: %v\n", err)
		return
	}
	fmt.Fprintln(r.rl.Stdout(), "Disconnected")
}

// printCommandError prints a command failure with a usage hint for the
// common guard errors.
func (r *REPL) printCommandError(err error) {
	switch {
	case errors.Is(err, session.ErrNotConnected):
		fmt.Fprintln(r.rl.Stdout(), "Not connected - run 'connect' first")
	case errors.Is(err, session.ErrNotAwake):
		fmt.Fprintln(r.rl.Stdout(), "Toy is asleep - run 'wake' first")
	default:
		fmt.Fprintf(r.rl.Stdout(), "Error: %v\n", err)
	}
}

func parseInts(args []string) ([]int, error) {
	out := make([]int, len(args))
	for i, a := range args {
		v, err := strconv.Atoi(a)
		if err != nil {
			return nil, fmt.Errorf("%q is not an integer", a)
		}
		out[i] = v
	}
	return out, nil
}
