package ws

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"TradeStage/internal/domain/models"
	"TradeStage/internal/usecase"
	xlogger "TradeStage/pkg/logger"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 25 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// Stage updates carry no credentials; origin checks belong to the
	// gateway in front of this service.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// BalanceHandler streams transition reports for one account over a
// websocket. Each connection gets its own subscription; a slow client is
// disconnected rather than allowed to stall the update path.
type BalanceHandler struct {
	logger   *xlogger.Logger
	accounts *usecase.AccountUsecase
}

func NewBalanceHandler(logger *xlogger.Logger, accounts *usecase.AccountUsecase) *BalanceHandler {
	return &BalanceHandler{logger: logger, accounts: accounts}
}

func (h *BalanceHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/ws/account/:id", h.Stream)
}

func (h *BalanceHandler) Stream(c echo.Context) error {
	accountID := c.Param("id")

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	updates, cancel := h.accounts.Subscribe(accountID)
	defer cancel()

	h.logger.Info("ws subscriber attached", xlogger.String("account_id", accountID))

	// Send the current snapshot first so the client does not wait for the
	// next update to learn the stage.
	if rep, ok := h.accounts.Snapshot(accountID); ok {
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(h.frame(rep)); err != nil {
			return nil
		}
	}

	done := make(chan struct{})
	go h.readLoop(conn, done)

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return nil
		case rep, ok := <-updates:
			if !ok {
				return nil
			}
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(h.frame(rep)); err != nil {
				h.logger.Debug("ws write failed", xlogger.Error(err), xlogger.String("account_id", accountID))
				return nil
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return nil
			}
		}
	}
}

// updateFrame is one websocket message: the transition plus where the
// account now sits within its stage.
type updateFrame struct {
	models.TransitionReport
	Progress models.StageProgress `json:"progress"`
}

func (h *BalanceHandler) frame(rep models.TransitionReport) updateFrame {
	f := updateFrame{TransitionReport: rep}
	if prog, ok := h.accounts.Progress(rep.AccountID); ok {
		f.Progress = prog
	}
	return f
}

// readLoop drains client frames so pongs and close frames are processed.
func (h *BalanceHandler) readLoop(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)
	conn.SetReadLimit(512)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
