package controllers

import (
	"fmt"
	"log"
	"net/http"
	"strconv"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/secure-trade/api-go/services"
	"github.com/secure-trade/api-go/utils"
)

// ChatController relays messages between buyers and sellers over websockets.
// A conversation lives in a room named after the sorted pair of user ids;
// there is also a single public room. Messages are broadcast to whoever is
// connected at that moment and nothing is persisted.
type ChatController struct {
	Accounts *services.AccountService

	mu    sync.Mutex
	rooms map[string]map[*websocket.Conn]bool

	upgrader websocket.Upgrader
}

type ChatMessage struct {
	Username string `json:"username"`
	Message  string `json:"message"`
}

const publicRoom = "public"

func NewChatController(accounts *services.AccountService) *ChatController {
	return &ChatController{
		Accounts: accounts,
		rooms:    make(map[string]map[*websocket.Conn]bool),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The bearer token, not the origin, authenticates the caller.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// DirectChat joins the caller to the pair room shared with the peer user.
func (cc *ChatController) DirectChat(c *gin.Context) {
	peerID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user id", "success": false})
		return
	}
	if _, err := cc.Accounts.Get(uint(peerID)); err != nil {
		respondError(c, err)
		return
	}

	user := utils.GetAccount(c)
	cc.serve(c, pairRoom(user.ID, uint(peerID)), user.Username)
}

// PublicChat joins the caller to the shared public room.
func (cc *ChatController) PublicChat(c *gin.Context) {
	user := utils.GetAccount(c)
	cc.serve(c, publicRoom, user.Username)
}

func (cc *ChatController) serve(c *gin.Context, room, username string) {
	conn, err := cc.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("chat: upgrade failed: %v", err)
		return
	}

	cc.join(room, conn)
	cc.broadcast(room, ChatMessage{Username: username, Message: fmt.Sprintf("%s joined the chat", username)})

	defer func() {
		cc.leave(room, conn)
		conn.Close()
	}()

	for {
		var msg ChatMessage
		if err := conn.ReadJSON(&msg); err != nil {
			return
		}
		if msg.Message == "" {
			continue
		}
		// The sender's identity comes from the session, never the payload.
		msg.Username = username
		cc.broadcast(room, msg)
	}
}

func pairRoom(a, b uint) string {
	if a > b {
		a, b = b, a
	}
	return fmt.Sprintf("room_%d_%d", a, b)
}

func (cc *ChatController) join(room string, conn *websocket.Conn) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	if cc.rooms[room] == nil {
		cc.rooms[room] = make(map[*websocket.Conn]bool)
	}
	cc.rooms[room][conn] = true
}

func (cc *ChatController) leave(room string, conn *websocket.Conn) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	delete(cc.rooms[room], conn)
	if len(cc.rooms[room]) == 0 {
		delete(cc.rooms, room)
	}
}

// broadcast is fire-and-forget: a dead connection just gets dropped.
func (cc *ChatController) broadcast(room string, msg ChatMessage) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	for conn := range cc.rooms[room] {
		if err := conn.WriteJSON(msg); err != nil {
			conn.Close()
			delete(cc.rooms[room], conn)
		}
	}
}
