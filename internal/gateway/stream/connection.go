package stream

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	busv1 "github.com/matyusmilan/xm-forex/internal/domain/marketbus/v1"
	"github.com/matyusmilan/xm-forex/pkg/errors"
	"github.com/matyusmilan/xm-forex/pkg/logger"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

// connection pairs one WebSocket connection with one bus subscription.
// The write pump is the only goroutine writing to the socket; the read
// pump only services pongs and detects the peer going away.
type connection struct {
	ws     *websocket.Conn
	sub    busv1.Subscription
	bus    busv1.Bus
	logger logger.Interface

	teardownOnce sync.Once
}

func newConnection(ws *websocket.Conn, sub busv1.Subscription, bus busv1.Bus, logger logger.Interface) *connection {
	return &connection{
		ws:     ws,
		sub:    sub,
		bus:    bus,
		logger: logger,
	}
}

// writePump drains the subscription into the socket and keeps the
// connection alive with pings. It exits when the subscription ends or a
// write fails.
func (c *connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.teardown()
	}()

	for {
		select {
		case msg, ok := <-c.sub.Events():
			if !ok {
				c.writeClose()
				return
			}
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteJSON(payload(msg)); err != nil {
				return
			}
		case <-ticker.C:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump discards inbound frames, services pongs and tears the
// connection down when the peer goes away.
func (c *connection) readPump() {
	defer c.teardown()

	c.ws.SetReadLimit(maxMessageSize)
	c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.ws.ReadMessage(); err != nil {
			return
		}
	}
}

// writeClose sends the close frame for an ended subscription. A
// subscriber dropped for falling behind gets a policy violation close
// carrying the overflow code; everything else is a normal closure.
func (c *connection) writeClose() {
	code := websocket.CloseNormalClosure
	text := ""
	if err := c.sub.Err(); err != nil && errors.ErrorCodeEquals(err, errors.SubscriberOverflow) {
		code = websocket.ClosePolicyViolation
		text = string(errors.SubscriberOverflow)
	}

	c.ws.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(code, text), time.Now().Add(writeWait))
}

// teardown unsubscribes and closes the socket exactly once. Closing the
// subscription wakes the write pump, closing the socket wakes the read
// pump, so either pump exiting stops the other.
func (c *connection) teardown() {
	c.teardownOnce.Do(func() {
		id := c.sub.ID()
		c.bus.Unsubscribe(id)
		c.ws.Close()

		c.logger.Info("Stream subscriber detached",
			logger.Field{Key: "action", Value: "stream_detach"},
			logger.Field{Key: "subscriptionID", Value: id},
		)
	})
}

// payload unwraps the bus message into the frame sent to the client.
func payload(msg busv1.Message) interface{} {
	if msg.OrderEvent != nil {
		return msg.OrderEvent
	}
	return msg.Quote
}
