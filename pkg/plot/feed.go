package plot

import "context"

// Feed applies batches from ch until ch is closed or ctx is done. Rejected
// batches are logged and skipped. It returns ctx.Err() on cancellation and
// nil when ch is closed.
func (s *Session) Feed(ctx context.Context, ch <-chan [][]float64) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case batch, ok := <-ch:
			if !ok {
				return nil
			}
			if err := s.AddData(batch); err != nil {
				s.logger.Warn("dropped batch", "error", err)
			}
		}
	}
}
