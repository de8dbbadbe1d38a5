package amqp

import (
	"encoding/json"
	"time"
)

// OrderExportMessage tells the bookkeeping worker that an order needs to be
// exported. It carries only the order ID; the worker reads the full row from
// the database so the message never goes stale.
type OrderExportMessage struct {
	OrderID   int64     `json:"orderId"`
	Timestamp time.Time `json:"timestamp"`
}

func NewOrderExportMessage(orderID int64) *OrderExportMessage {
	return &OrderExportMessage{
		OrderID:   orderID,
		Timestamp: time.Now(),
	}
}

func (m *OrderExportMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func OrderExportMessageFromJSON(data []byte) (*OrderExportMessage, error) {
	var msg OrderExportMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
