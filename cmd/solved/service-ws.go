package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/SakastLord/ideas/service"

	"github.com/gorilla/websocket"
)

// WebSocketService registers the /ws/api handler.
//
// Each op's result goes back on the same connection.  Results of ops
// that change a session are also forwarded to every other
// connection, so several views of one session stay current.
func WebSocketService(ctx context.Context, s *service.Service) {

	ops := make(chan interface{}, 1024)

	var upgrader = websocket.Upgrader{} // use default options

	conns := sync.Map{}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case x := <-ops:
				conns.Range(func(k, v interface{}) bool {
					c := v.(chan interface{})
					select {
					case c <- x:
					default:
						log.Printf("%v ops blocked", k)
					}
					return true
				})
			}
		}

	}()

	api := func(w http.ResponseWriter, r *http.Request) {
		c, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Println("upgrade error", err)
			return
		}
		defer c.Close()

		ctl := make(chan bool)
		defer close(ctl)

		in := make(chan interface{}, 32)
		defer close(in)

		id := c.RemoteAddr().String()
		conns.Store(id, in)
		defer conns.Delete(id)

		go func() {
			mt := websocket.TextMessage

		LOOP:
			for {
				select {
				case <-ctl:
					break LOOP
				case <-ctx.Done():
					break LOOP
				case x := <-in:
					if x == nil {
						break LOOP
					}
					js, err := json.Marshal(&x)
					if err != nil {
						log.Printf("forward Marshal error %v on %#v", err, x)
						continue
					}
					if err = c.WriteMessage(mt, js); err != nil {
						log.Println("forward write:", err)
					}
				}
			}
		}()

		for {
			mt, message, err := c.ReadMessage()
			if err != nil {
				log.Println("read error", err)
				break
			}

			var op service.Op
			if err := json.Unmarshal(message, &op); err != nil {
				res := service.ErrResult("can't parse: %v", err)
				js, _ := json.Marshal(res)
				if err = c.WriteMessage(mt, js); err != nil {
					log.Println("write (err)", err)
				}
				continue
			}

			res := s.Do(ctx, &op)

			js, err := json.Marshal(res)
			if err != nil {
				log.Printf("Marshal error %v on %#v", err, res)
				continue
			}
			if err = c.WriteMessage(mt, js); err != nil {
				log.Println("write", err)
				continue
			}

			if res.Error == "" && service.Mutates(op.Op) {
				select {
				case ops <- res:
				default:
					log.Printf("ops backlogged; dropping broadcast")
				}
			}
		}
	}

	http.HandleFunc("/ws/api", api)
}
