package web

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/teslashibe/go-avatar/pkg/accessory"
	"github.com/teslashibe/go-avatar/pkg/avatar"
	"github.com/teslashibe/go-avatar/pkg/protocol"
	"github.com/teslashibe/go-avatar/pkg/rig"
	"github.com/teslashibe/go-avatar/pkg/store"
)

// StatusResponse is the body of GET /api/status.
type StatusResponse struct {
	avatar.Status
	Clients int `json:"clients"`
}

// BonesResponse is the body of GET /api/bones.
type BonesResponse struct {
	Bones            []string              `json:"bones"`
	AttachmentPoints []rig.AttachmentPoint `json:"attachment_points"`
}

type liveRequest struct {
	Live bool `json:"live"`
}

type sourceRequest struct {
	Source string `json:"source"`
}

func jsonError(c *fiber.Ctx, code int, err error) error {
	return c.Status(code).JSON(fiber.Map{"error": err.Error()})
}

func (s *Server) handleError(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	return jsonError(c, code, err)
}

func (s *Server) handleStatus(c *fiber.Ctx) error {
	return c.JSON(StatusResponse{
		Status:  s.session.Status(),
		Clients: s.poseHub.ClientCount(),
	})
}

func (s *Server) handleGetTracking(c *fiber.Ctx) error {
	return c.JSON(s.session.Tracking())
}

func (s *Server) handlePutTracking(c *fiber.Ctx) error {
	var data protocol.TrackingData
	if err := c.BodyParser(&data); err != nil {
		return jsonError(c, fiber.StatusBadRequest, err)
	}
	state := s.session.UpdateTracking(data.Patch())
	s.broadcastStatus()
	return c.JSON(state)
}

func (s *Server) handlePutLive(c *fiber.Ctx) error {
	var req liveRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, err)
	}
	s.session.SetLive(req.Live)
	s.broadcastStatus()
	return c.JSON(fiber.Map{"live": s.session.Live()})
}

func (s *Server) handleLoadAvatar(c *fiber.Ctx) error {
	var req sourceRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, err)
	}
	req.Source = strings.TrimSpace(req.Source)
	if req.Source == "" {
		return jsonError(c, fiber.StatusBadRequest, errors.New("source is required"))
	}
	if err := s.LoadAvatar(c.UserContext(), req.Source); err != nil {
		return jsonError(c, fiber.StatusUnprocessableEntity, err)
	}
	s.broadcastStatus()
	return c.JSON(s.session.Status())
}

func (s *Server) handleBones(c *fiber.Ctx) error {
	if !s.session.Bound() {
		return jsonError(c, fiber.StatusConflict, avatar.ErrNotBound)
	}
	return c.JSON(BonesResponse{
		Bones:            s.session.BoneNames(),
		AttachmentPoints: rig.AttachmentPoints,
	})
}

func (s *Server) handleListAccessories(c *fiber.Ctx) error {
	return c.JSON(s.session.Bindings())
}

func (s *Server) handleAddAccessory(c *fiber.Ctx) error {
	var req sourceRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, err)
	}
	req.Source = strings.TrimSpace(req.Source)
	if req.Source == "" {
		return jsonError(c, fiber.StatusBadRequest, errors.New("source is required"))
	}

	a := s.session.AddAccessory(req.Source)
	if err := s.persist(c, a); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, err)
	}
	return c.Status(fiber.StatusCreated).JSON(a)
}

func (s *Server) handleUpdateAccessory(c *fiber.Ctx) error {
	var patch accessory.Patch
	if err := c.BodyParser(&patch); err != nil {
		return jsonError(c, fiber.StatusBadRequest, err)
	}

	a, err := s.session.UpdateAccessory(c.Params("id"), patch)
	if errors.Is(err, accessory.ErrNotFound) {
		return jsonError(c, fiber.StatusNotFound, err)
	}
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, err)
	}
	if err := s.persist(c, a); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, err)
	}
	return c.JSON(a)
}

func (s *Server) handleDeleteAccessory(c *fiber.Ctx) error {
	id := c.Params("id")
	err := s.session.RemoveAccessory(id)
	if errors.Is(err, accessory.ErrNotFound) {
		return jsonError(c, fiber.StatusNotFound, err)
	}
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, err)
	}

	if source := s.session.Source(); s.store != nil && source != "" {
		err := s.store.Delete(c.UserContext(), source, id)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			return jsonError(c, fiber.StatusInternalServerError, err)
		}
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) handleGetTuning(c *fiber.Ctx) error {
	return c.JSON(s.session.Tuning())
}

func (s *Server) handlePutTuning(c *fiber.Ctx) error {
	var params avatar.TuningParams
	if err := c.BodyParser(&params); err != nil {
		return jsonError(c, fiber.StatusBadRequest, err)
	}
	s.session.SetTuning(params)
	return c.JSON(s.session.Tuning())
}

func (s *Server) persist(c *fiber.Ctx, a accessory.Accessory) error {
	source := s.session.Source()
	if s.store == nil || source == "" {
		return nil
	}
	return s.store.Save(c.UserContext(), source, a)
}
