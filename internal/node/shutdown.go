package node

import (
	"errors"

	"go.uber.org/zap"
)

// Shutdown stops the node. Only the first call does anything: it cancels
// every loop, closes the listener and all registered connections, queues the
// end marker for the consumer and closes the event sink. Each step runs even
// if an earlier one failed.
func (n *Node) Shutdown() {
	n.shutdownOnce.Do(func() {
		n.cancel()
		n.record("Shutting down peer.")

		n.step("close listener", n.listener.Close)
		n.step("close connections", n.closeConnections)
		n.step("close outbound queue", func() error {
			n.queue.Close()
			return nil
		})

		n.record("Peer shut down.")
		n.step("close event sink", n.events.Close)
		n.log.Info("node shut down")
	})
}

func (n *Node) closeConnections() error {
	var errs []error
	for _, e := range n.registry.Drain() {
		if err := e.Conn.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (n *Node) step(name string, fn func() error) {
	defer func() {
		if r := recover(); r != nil {
			n.log.Error("shutdown step panicked", zap.String("step", name), zap.Any("panic", r))
		}
	}()
	if err := fn(); err != nil {
		n.log.Debug("shutdown step failed", zap.String("step", name), zap.Error(err))
	}
}
