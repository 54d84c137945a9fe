package delivery

import (
	"github.com/zeu5/ctrm-reach/ctrm"
)

const (
	Looking    = "U0"
	HasPackage = "U1"
	Delivered  = "U2"
)

// Rates of the delivery task: the pickup area is congested and
// the goal is fast to reach once the package is collected
func Rates() *ctrm.RateTable {
	return ctrm.NewRateTable(1.0).
		ForEnv(Pickup.Hash(), 0.5).
		For(HasPackage, Goal.Hash(), 2.0)
}

// NewMachine returns the reward machine tracking the delivery:
// collect the package and then reach the goal
func NewMachine() *ctrm.CTRM {
	return ctrm.New(Looking).Build().
		On(ctrm.Prop("package"), HasPackage).
		On(ctrm.Prop("goal"), Delivered).
		MarkAccepting().
		Machine().
		WithRates(Rates().Func())
}
