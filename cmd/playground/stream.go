package main

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const writeTimeout = 5 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// stream pushes the session state to the websocket client after every change.
func (p *playground) stream(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Str("remote-address", r.RemoteAddr).Msg("could not upgrade connection")
		return
	}
	defer conn.Close()

	updates, cancel := p.trainer.Subscribe()
	defer cancel()

	// the client only sends control frames, reading detects the close
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	log.Info().Str("remote-address", r.RemoteAddr).Msg("stream opened")
	if err := p.write(conn, p.trainer.State()); err != nil {
		return
	}
	for {
		select {
		case state, ok := <-updates:
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"))
				return
			}
			if err := p.write(conn, state); err != nil {
				return
			}
		case <-closed:
			log.Info().Str("remote-address", r.RemoteAddr).Msg("stream closed")
			return
		}
	}
}

func (p *playground) write(conn *websocket.Conn, v interface{}) error {
	if err := conn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		return err
	}
	if err := conn.WriteJSON(v); err != nil {
		log.Warn().Err(err).Msg("could not write to stream")
		return err
	}
	return nil
}
