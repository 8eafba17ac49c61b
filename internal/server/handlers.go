package server

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/aretw0/talktyper/pkg/core"
	"github.com/aretw0/talktyper/pkg/share"
)

// NoteView is a note as listed over HTTP.
type NoteView struct {
	Index         int    `json:"index"`
	Row           int    `json:"row"`
	Timestamp     string `json:"timestamp"`
	Transcription string `json:"transcription"`
}

// ListResponse is the body of GET /notes.
type ListResponse struct {
	Notes []NoteView `json:"notes"`
	Count int        `json:"count"`
	Dirty bool       `json:"dirty"`
}

type textRequest struct {
	Text string `json:"text" form:"text"`
}

type voiceRequest struct {
	Transcription string `json:"transcription" form:"transcription"`
}

type shareRequest struct {
	To string `json:"to" form:"to"`
}

// ShareResponse is the body of the share endpoints.
type ShareResponse struct {
	Channel string `json:"channel"`
	Link    string `json:"link,omitempty"`
	ID      string `json:"id,omitempty"`
}

func (s *Server) health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok", "store": s.store.State()})
}

func (s *Server) list(c *fiber.Ctx) error {
	reversed := s.store.Reversed()
	views := make([]NoteView, len(reversed))
	for pos, n := range reversed {
		views[pos] = NoteView{
			Index:         core.DisplayIndex(len(reversed), pos),
			Row:           pos + 1,
			Timestamp:     n.Timestamp,
			Transcription: n.Transcription,
		}
	}
	return c.JSON(ListResponse{Notes: views, Count: len(views), Dirty: s.store.Dirty()})
}

func (s *Server) get(c *fiber.Ctx) error {
	index, err := indexParam(c)
	if err != nil {
		return err
	}
	note, err := s.store.Get(index)
	if err != nil {
		return err
	}
	return c.JSON(s.view(index, note, s.store.Len()))
}

func (s *Server) create(c *fiber.Ctx) error {
	var req textRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}

	ts := s.store.Stamp()
	index, added, err := s.store.PushManual(c.UserContext(), ts, req.Text)
	if err != nil {
		return err
	}
	if !added {
		return c.SendStatus(fiber.StatusNoContent)
	}
	return s.created(c, index, core.Note{Timestamp: ts, Transcription: strings.TrimSpace(req.Text)})
}

func (s *Server) createVoice(c *fiber.Ctx) error {
	var req voiceRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}

	ts := s.store.Stamp()
	index, err := s.store.Push(c.UserContext(), ts, req.Transcription)
	if err != nil {
		return err
	}
	return s.created(c, index, core.Note{Timestamp: ts, Transcription: req.Transcription})
}

// created answers with the note as it was inserted: the newest row.
func (s *Server) created(c *fiber.Ctx, index int, note core.Note) error {
	return c.Status(fiber.StatusCreated).JSON(s.view(index, note, index+1))
}

func (s *Server) update(c *fiber.Ctx) error {
	index, err := indexParam(c)
	if err != nil {
		return err
	}
	var req textRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}

	note, err := s.store.Replace(c.UserContext(), index, req.Text)
	if err != nil {
		return err
	}
	return c.JSON(s.view(index, note, s.store.Len()))
}

func (s *Server) remove(c *fiber.Ctx) error {
	index, err := indexParam(c)
	if err != nil {
		return err
	}
	if err := s.store.Remove(c.UserContext(), index); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) clear(c *fiber.Ctx) error {
	if err := s.store.Clear(c.UserContext()); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) shareLink(c *fiber.Ctx) error {
	index, err := indexParam(c)
	if err != nil {
		return err
	}
	note, err := s.store.Get(index)
	if err != nil {
		return err
	}

	ch, err := share.ParseChoice(c.Query("option"))
	if err != nil {
		return err
	}
	link, err := share.Link(ch, note.Transcription)
	if err != nil {
		return err
	}
	return c.JSON(ShareResponse{Channel: ch.String(), Link: link})
}

// shareSend delivers the note through the message channel.
func (s *Server) shareSend(c *fiber.Ctx) error {
	if s.sender == nil {
		return fiber.NewError(fiber.StatusNotImplemented, "message delivery is not configured")
	}
	index, err := indexParam(c)
	if err != nil {
		return err
	}
	note, err := s.store.Get(index)
	if err != nil {
		return err
	}
	var req shareRequest
	if err := c.BodyParser(&req); err != nil || req.To == "" {
		return fiber.NewError(fiber.StatusBadRequest, "recipient number is required")
	}

	id, err := s.sender.Send(c.UserContext(), req.To, share.Body(note.Transcription))
	if err != nil {
		return fiber.NewError(fiber.StatusBadGateway, err.Error())
	}
	return c.Status(fiber.StatusAccepted).JSON(ShareResponse{Channel: share.Message.String(), ID: id})
}

// view places a note in a history of count notes.
func (s *Server) view(index int, n core.Note, count int) NoteView {
	return NoteView{
		Index:         index,
		Row:           count - index,
		Timestamp:     n.Timestamp,
		Transcription: n.Transcription,
	}
}

func indexParam(c *fiber.Ctx) (int, error) {
	index, err := c.ParamsInt("index")
	if err != nil {
		return 0, fiber.NewError(fiber.StatusBadRequest, "index must be an integer")
	}
	return index, nil
}
