/*
Copyright (C) 2023  Carl-Philip Hänsch

	This program is free software: you can redistribute it and/or modify
	it under the terms of the GNU General Public License as published by
	the Free Software Foundation, either version 3 of the License, or
	(at your option) any later version.

	This program is distributed in the hope that it will be useful,
	but WITHOUT ANY WARRANTY; without even the implied warranty of
	MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
	GNU General Public License for more details.

	You should have received a copy of the GNU General Public License
	along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/
package scm

import (
	"fmt"
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

var netUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// NetServe exposes a second REPL collaborator over a websocket: each text
// frame received is read as one expression and evaluated against env, with
// the printed result (or error message) sent back as the reply frame. This
// is the network analogue of Repl, grounded on scm/network.go's
// upgrade-then-read-loop shape, scaled down from a full HTTP-object bridge
// to a bare eval-over-websocket collaborator.
func (in *Interp) NetServe(addr string, env Value) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		ws, err := netUpgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("netrepl: upgrade failed: %v", err)
			return
		}
		sessionID := uuid.New()
		log.Printf("netrepl %s: connection from %s", sessionID, r.RemoteAddr)
		go in.serveConn(sessionID.String(), ws, env)
	})
	log.Printf("netrepl: listening on %s", addr)
	return http.ListenAndServe(addr, mux)
}

func (in *Interp) serveConn(sessionID string, ws *websocket.Conn, env Value) {
	defer ws.Close()
	defer func() {
		if r := recover(); r != nil {
			log.Printf("netrepl %s: connection error: %v", sessionID, r)
		}
	}()
	for {
		messageType, msg, err := ws.ReadMessage()
		if err != nil {
			if _, ok := err.(*websocket.CloseError); ok {
				log.Printf("netrepl %s: closed", sessionID)
				return
			}
			log.Printf("netrepl %s: read error: %v", sessionID, err)
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}

		r := NewReader(in.Heap, in.Symbols, string(msg))
		expr, rerr := r.ReadExpr()
		if rerr != nil {
			ws.WriteMessage(websocket.TextMessage, []byte("error: "+rerr.Error()))
			continue
		}
		result, evalErr := in.EvalTopLevel(expr, env)
		if evalErr != nil {
			ws.WriteMessage(websocket.TextMessage, []byte("error: "+evalErr.Error()))
			continue
		}
		reply := fmt.Sprintf("= %s", in.Heap.String(result))
		ws.WriteMessage(websocket.TextMessage, []byte(reply))
	}
}
