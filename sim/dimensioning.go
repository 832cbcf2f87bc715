package sim

import (
	"go.uber.org/zap"

	"github.com/netforge/netforge/topo"
)

// Dimensioning sizes every physical link against single-link failures:
// the no-failure state seeds each link's worst case, then each physical
// link is failed in turn, all tables rebuilt and all demands re-routed,
// and every link's observed traffic compared against its recorded worst
// case. The peak and, when a failure raised it, the failure that caused
// it are kept per link and direction. The failure set is cleared
// afterward.
//
// Each scenario is a full table rebuild plus a forwarding run, making
// this the most expensive operation of the engine.
func (e *Engine) Dimensioning() error {
	e.T.ClearFailures()
	if err := e.Route(); err != nil {
		return err
	}
	for _, l := range e.T.Links(topo.Physical) {
		for _, dir := range [2]topo.Direction{topo.SD, topo.DS} {
			if l.Traffic[dir] > l.WCTraffic[dir] {
				l.WCTraffic[dir] = l.Traffic[dir]
			}
		}
	}
	for _, failed := range e.T.Links(topo.Physical) {
		e.T.ClearFailures()
		e.T.FailLink(failed)
		if err := e.Route(); err != nil {
			e.T.ClearFailures()
			return err
		}
		for _, l := range e.T.Links(topo.Physical) {
			for _, dir := range [2]topo.Direction{topo.SD, topo.DS} {
				if l.Traffic[dir] > l.WCTraffic[dir] {
					l.WCTraffic[dir] = l.Traffic[dir]
					l.WCFailure = failed.Name
				}
			}
		}
		e.Log.Debug("failure scenario dimensioned", zap.String("failed", failed.Name))
	}
	e.T.ClearFailures()
	return nil
}
