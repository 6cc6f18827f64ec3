package render

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"drawboard/canvas"
	"drawboard/config"
	"drawboard/store"
)

type renderOptions struct {
	roomID string
	out    string
	dsn    string
	limit  int
	width  float64
	height float64
	dark   bool
}

// Cmd represents the render command.
var Cmd = NewCommand()

// NewCommand returns a new render command instance.
func NewCommand() *cobra.Command {
	opts := &renderOptions{
		width:  1280,
		height: 720,
	}

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Export a room's stored drawing as SVG",
		Long: `Replay the stored events of one room into a document and write the
result as an SVG image. Use --out - to write to stdout.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.roomID, "room", "r", "", "Room id to render")
	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "Output file, or - for stdout")
	cmd.Flags().StringVar(&opts.dsn, "dsn", "", "SQLite database path (default: $DATABASE_DSN)")
	cmd.Flags().IntVarP(&opts.limit, "limit", "n", 0, "Number of recent events to replay (default: $HISTORY_LIMIT)")
	cmd.Flags().Float64Var(&opts.width, "width", opts.width, "Image width in pixels")
	cmd.Flags().Float64Var(&opts.height, "height", opts.height, "Image height in pixels")
	cmd.Flags().BoolVar(&opts.dark, "dark", false, "Use the dark background")
	_ = cmd.MarkFlagRequired("room")
	_ = cmd.MarkFlagRequired("out")

	return cmd
}

func runRender(ctx context.Context, stdout io.Writer, opts *renderOptions) error {
	cfg := config.Load()
	dsn := opts.dsn
	if dsn == "" {
		dsn = cfg.DatabaseDSN
	}
	if dsn == store.MemoryDSN {
		return errors.New("render needs a persistent database")
	}
	limit := opts.limit
	if limit <= 0 {
		limit = cfg.HistoryLimit
	}

	st, err := store.Open(dsn)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer st.Close()

	svg, err := renderRoom(ctx, st, opts, limit)
	if err != nil {
		return err
	}

	if opts.out == "-" {
		_, err = stdout.Write(svg)
		return err
	}
	if err := os.WriteFile(opts.out, svg, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", opts.out, err)
	}
	return nil
}

type history interface {
	ListRecent(ctx context.Context, roomID string, limit int) ([]store.Event, error)
}

func renderRoom(ctx context.Context, h history, opts *renderOptions, limit int) ([]byte, error) {
	events, err := h.ListRecent(ctx, opts.roomID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load room %s: %w", opts.roomID, err)
	}

	messages := make([]string, len(events))
	for i, ev := range events {
		messages[i] = ev.Payload
	}
	var doc canvas.Document
	canvas.Replay(&doc, messages)

	style := canvas.DefaultStyle()
	if opts.dark {
		style.Background = canvas.DarkBackground
	}
	svg := canvas.NewSVG(opts.width, opts.height)
	canvas.Render(svg, doc.Shapes(), nil, canvas.NewViewport(), style)
	return svg.Bytes(), nil
}
