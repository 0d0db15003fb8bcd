package bot

import (
	"path/filepath"

	tele "gopkg.in/telebot.v3"

	"github.com/FatihZee/tele-bot/usecase"
)

// TeleSender adapts a telebot context to the conversation handle the
// usecases talk to. One sender per inbound message.
type TeleSender struct {
	c tele.Context
}

func NewTeleSender(c tele.Context) usecase.MediaSender {
	return &TeleSender{c: c}
}

func (s *TeleSender) Notify(text string) error {
	return s.c.Send(text)
}

func (s *TeleSender) SendVideo(path, caption string) error {
	return s.c.Send(&tele.Video{File: tele.FromDisk(path), Caption: caption})
}

func (s *TeleSender) SendAudio(path, caption string) error {
	return s.c.Send(&tele.Audio{File: tele.FromDisk(path), Caption: caption})
}

func (s *TeleSender) SendPhoto(path, caption string) error {
	return s.c.Send(&tele.Photo{File: tele.FromDisk(path), Caption: caption})
}

func (s *TeleSender) SendDocument(path, caption string) error {
	return s.c.Send(&tele.Document{
		File:     tele.FromDisk(path),
		Caption:  caption,
		FileName: filepath.Base(path),
	})
}
