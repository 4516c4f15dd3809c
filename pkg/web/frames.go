package web

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/websocket/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/teslashibe/go-avatar/pkg/avatar"
	"github.com/teslashibe/go-avatar/pkg/hub"
	"github.com/teslashibe/go-avatar/pkg/protocol"
)

// LoadAvatar loads and binds an avatar asset together with the accessories
// saved for it. Nothing changes when loading, restoring or binding fails.
func (s *Server) LoadAvatar(ctx context.Context, source string) error {
	root, err := s.loader(ctx, source)
	if err != nil {
		return fmt.Errorf("load %s: %w", source, err)
	}

	if s.store == nil {
		_, err := s.session.Bind(root, source)
		return err
	}
	items, err := s.store.List(ctx, source)
	if err != nil {
		return fmt.Errorf("restore accessories: %w", err)
	}
	if _, err := s.session.BindWith(root, source, items); err != nil {
		return err
	}
	s.logger.Info("accessories restored", "source", source, "count", len(items))
	return nil
}

// handleFramesWS ingests producer messages and answers each frame with a
// pose or an error.
func (s *Server) handleFramesWS(c *websocket.Conn) {
	s.logger.Info("producer connected", "remote", c.RemoteAddr().String())
	defer func() {
		s.logger.Info("producer disconnected", "remote", c.RemoteAddr().String())
		c.Close()
	}()

	for {
		_, data, err := c.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Warn("producer read error", "error", err)
			}
			return
		}

		reply := s.process(context.Background(), data)
		if reply == nil {
			continue
		}
		out, err := reply.Bytes()
		if err != nil {
			s.logger.Error("marshal reply", "error", err)
			continue
		}
		if err := c.WriteMessage(websocket.TextMessage, out); err != nil {
			return
		}
	}
}

// handlePoseWS subscribes a renderer to pose broadcasts.
func (s *Server) handlePoseWS(c *websocket.Conn) {
	client := hub.NewClient(s.poseHub, c)
	if client == nil {
		c.Close()
		return
	}
	s.logger.Info("renderer connected", "remote", c.RemoteAddr().String(), "clients", s.poseHub.ClientCount())
	client.Run()
}

// process handles one producer message and returns the reply, or nil.
func (s *Server) process(ctx context.Context, data []byte) *protocol.Message {
	msg, err := protocol.ParseMessage(data)
	if err != nil {
		return s.errorMessage(0, err)
	}

	switch msg.Type {
	case protocol.TypeFrame:
		frame, err := msg.GetFrameData()
		if err != nil {
			return s.errorMessage(0, err)
		}
		return s.processFrame(ctx, frame)

	case protocol.TypeTracking:
		td, err := msg.GetTrackingData()
		if err != nil {
			return s.errorMessage(0, err)
		}
		s.session.UpdateTracking(td.Patch())
		return s.statusMessage()

	case protocol.TypePing:
		ping, err := msg.GetPingData()
		if err != nil {
			return s.errorMessage(0, err)
		}
		pong, err := protocol.NewPongMessage(ping.ID, msg.Timestamp, time.Now().UnixMilli())
		if err != nil {
			return s.errorMessage(0, err)
		}
		return pong

	default:
		return s.errorMessage(0, fmt.Errorf("unsupported message type %q", msg.Type))
	}
}

func (s *Server) processFrame(ctx context.Context, frame *protocol.FrameData) *protocol.Message {
	_, span := s.tracer.Start(ctx, "avatar.frame", trace.WithAttributes(
		attribute.Int64("frame.id", int64(frame.FrameID)),
		attribute.Bool("frame.face", frame.Face != nil),
		attribute.Bool("frame.body", frame.Body != nil),
		attribute.Int("frame.hands", len(frame.Hands)),
	))
	defer span.End()

	pose, err := s.session.Update(frame.Input())
	if err != nil {
		if avatar.IsSkip(err) {
			span.SetAttributes(attribute.String("frame.skip", err.Error()))
		} else {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		return s.errorMessage(frame.FrameID, err)
	}
	span.SetAttributes(
		attribute.String("pose.framing", string(pose.Framing)),
		attribute.Int("pose.bones", len(pose.Bones)),
		attribute.StringSlice("pose.skipped", pose.Skipped),
	)

	msg, err := protocol.NewPoseMessage(frame.FrameID, pose)
	if err != nil {
		span.RecordError(err)
		return s.errorMessage(frame.FrameID, err)
	}
	if err := s.poseHub.BroadcastMessage(msg); err != nil {
		s.logger.Warn("pose broadcast failed", "error", err)
	}
	return msg
}

func (s *Server) errorMessage(frameID uint64, err error) *protocol.Message {
	msg, merr := protocol.NewErrorMessage(frameID, err)
	if merr != nil {
		s.logger.Error("build error message", "error", merr)
		return nil
	}
	return msg
}

func (s *Server) statusMessage() *protocol.Message {
	msg, err := protocol.NewStatusMessage(s.session.Status())
	if err != nil {
		return s.errorMessage(0, err)
	}
	return msg
}

func (s *Server) broadcastStatus() {
	if msg := s.statusMessage(); msg != nil {
		if err := s.poseHub.BroadcastMessage(msg); err != nil {
			s.logger.Warn("status broadcast failed", "error", err)
		}
	}
}
