package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"

	"github.com/teslashibe/go-avatar/internal/log"
	"github.com/teslashibe/go-avatar/pkg/avatar"
	"github.com/teslashibe/go-avatar/pkg/protocol"
)

const progressTemplate = `{{ string . "prefix" }} {{counters . }} {{bar . }} {{percent . }} {{etime . "%s elapsed"}}`

func newReplayCommand(ctx *commandContext) *cobra.Command {
	var source string
	var remote string
	var quiet bool

	cmd := &cobra.Command{
		Use:   "replay <recording.jsonl>",
		Short: "Replay a landmark recording and summarize the resulting poses",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			frames, err := readRecording(args[0])
			if err != nil {
				return err
			}
			if len(frames) == 0 {
				return fmt.Errorf("recording %s has no frames", args[0])
			}

			bar := pb.ProgressBarTemplate(progressTemplate).New(len(frames))
			bar.Set("prefix", "replay")
			if quiet {
				bar.SetWriter(io.Discard)
			}
			bar.Start()

			var sum *replaySummary
			if remote != "" {
				sum, err = replayRemote(cmd.Context(), remote, frames, bar.Increment)
			} else {
				if source == "" {
					source = cfg.Server.DefaultAvatar
				}
				sum, err = replayLocal(cmd.Context(), cfg.Avatar, source, frames, bar.Increment)
			}
			bar.Finish()
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Metric", "Count"}, sum.rows(), 1))
			return nil
		},
	}

	cmd.Flags().StringVar(&source, "avatar", "", "Avatar asset path or URL for a local replay")
	cmd.Flags().StringVar(&remote, "remote", "", "Send frames to a running server (ws://host:port/ws/frames)")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Hide the progress bar")

	return cmd
}

func readRecording(path string) ([]protocol.FrameData, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return protocol.ReadRecording(f)
}

// replaySummary counts the outcome of every replayed frame.
type replaySummary struct {
	Frames  int
	Poses   int
	Errors  map[string]int
	Framing map[string]int
	Skipped map[string]int
}

func newReplaySummary() *replaySummary {
	return &replaySummary{
		Errors:  make(map[string]int),
		Framing: make(map[string]int),
		Skipped: make(map[string]int),
	}
}

func (s *replaySummary) addPose(p protocol.PoseData) {
	s.Frames++
	s.Poses++
	s.Framing[p.Framing]++
	for _, skip := range p.Skipped {
		pass, _, _ := strings.Cut(skip, ":")
		s.Skipped[pass]++
	}
}

func (s *replaySummary) addError(msg string) {
	s.Frames++
	s.Errors[msg]++
}

func (s *replaySummary) rows() [][]string {
	rows := [][]string{
		{"frames", strconv.Itoa(s.Frames)},
		{"poses", strconv.Itoa(s.Poses)},
	}
	add := func(prefix string, m map[string]int) {
		keys := make([]string, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			rows = append(rows, []string{prefix + k, strconv.Itoa(m[k])})
		}
	}
	add("framing ", s.Framing)
	add("skipped ", s.Skipped)
	add("error ", s.Errors)
	return rows
}

// replayLocal drives an in-process session with the recording.
func replayLocal(ctx context.Context, cfg avatar.Config, source string, frames []protocol.FrameData, tick func() *pb.ProgressBar) (*replaySummary, error) {
	session, err := avatar.NewSession(cfg, avatar.WithLogger(log.L()))
	if err != nil {
		return nil, err
	}
	if _, err := session.Load(ctx, source); err != nil {
		return nil, err
	}
	return replaySession(ctx, session, frames, tick)
}

func replaySession(ctx context.Context, session *avatar.Session, frames []protocol.FrameData, tick func() *pb.ProgressBar) (*replaySummary, error) {
	sum := newReplaySummary()
	for i := range frames {
		if err := ctx.Err(); err != nil {
			return sum, err
		}
		pose, err := session.Update(frames[i].Input())
		if err != nil {
			sum.addError(err.Error())
		} else {
			sum.addPose(protocol.PoseFrom(frames[i].FrameID, pose))
		}
		tick()
	}
	return sum, nil
}

// replayRemote sends the recording to a server's frame socket, waiting for
// each reply before sending the next frame.
func replayRemote(ctx context.Context, url string, frames []protocol.FrameData, tick func() *pb.ProgressBar) (*replaySummary, error) {
	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	conn, _, err := dialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}
	defer conn.Close()

	sum := newReplaySummary()
	for i := range frames {
		if err := ctx.Err(); err != nil {
			return sum, err
		}
		msg, err := protocol.NewFrameMessage(frames[i])
		if err != nil {
			return sum, err
		}
		data, err := msg.Bytes()
		if err != nil {
			return sum, err
		}
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			return sum, fmt.Errorf("send frame %d: %w", frames[i].FrameID, err)
		}

		if err := readReply(conn, sum); err != nil {
			return sum, err
		}
		tick()
	}

	_ = conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	return sum, nil
}

func readReply(conn *websocket.Conn, sum *replaySummary) error {
	if err := conn.SetReadDeadline(time.Now().Add(10 * time.Second)); err != nil {
		return err
	}
	_, data, err := conn.ReadMessage()
	if err != nil {
		return fmt.Errorf("read reply: %w", err)
	}
	reply, err := protocol.ParseMessage(data)
	if err != nil {
		return err
	}

	switch reply.Type {
	case protocol.TypePose:
		p, err := reply.GetPoseData()
		if err != nil {
			return err
		}
		sum.addPose(*p)
	case protocol.TypeError:
		e, err := reply.GetErrorData()
		if err != nil {
			return err
		}
		sum.addError(e.Message)
	default:
		return errors.New("unexpected reply type " + string(reply.Type))
	}
	return nil
}
