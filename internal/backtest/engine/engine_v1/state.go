package engine

import (
	"github.com/rxtech-lab/argo-backtest/internal/types"
	"github.com/shopspring/decimal"
)

// PositionState is the state of the single position slot of a run.
type PositionState string

const (
	StateFlat PositionState = "FLAT"
	StateOpen PositionState = "OPEN"
)

// TransitionKind is the action taken by the state machine on a bar.
type TransitionKind string

const (
	TransitionNone TransitionKind = "none"
	TransitionBuy  TransitionKind = "buy"
	TransitionSell TransitionKind = "sell"
)

// Transition describes what happened on a bar. Position is set for a buy and
// Trade for a sell.
type Transition struct {
	Kind     TransitionKind
	Position *types.Position
	Trade    *types.Trade
}

// openPosition keeps the exact decimal amounts behind a types.Position.
type openPosition struct {
	position  types.Position
	entryFill decimal.Decimal
	netCost   decimal.Decimal
	entryFee  decimal.Decimal
}

// PositionStateMachine moves a run between FLAT and OPEN one bar at a time.
// At most one entry or one exit happens per bar.
type PositionStateMachine struct {
	cfg      types.RunConfig
	cost     CostModel
	cash     decimal.Decimal
	open     *openPosition
	fraction decimal.Decimal
}

// NewPositionStateMachine starts FLAT with the configured initial capital.
func NewPositionStateMachine(cfg types.RunConfig) *PositionStateMachine {
	return &PositionStateMachine{
		cfg:      cfg,
		cost:     NewCostModel(cfg),
		cash:     decimal.NewFromFloat(cfg.InitialCapital),
		open:     nil,
		fraction: decimal.NewFromFloat(cfg.PositionSize),
	}
}

// State returns FLAT or OPEN.
func (m *PositionStateMachine) State() PositionState {
	if m.open != nil {
		return StateOpen
	}

	return StateFlat
}

// Cash returns the cash currently available.
func (m *PositionStateMachine) Cash() decimal.Decimal {
	return m.cash
}

// Position returns the open position, if any.
func (m *PositionStateMachine) Position() (types.Position, bool) {
	if m.open == nil {
		return types.Position{}, false
	}

	return m.open.position, true
}

// Snapshot marks the account to market at the bar's close.
func (m *PositionStateMachine) Snapshot(bar types.Bar) types.EquityPoint {
	positionValue := decimal.Zero
	if m.open != nil {
		positionValue = decimal.NewFromFloat(bar.Close).Mul(decimal.NewFromInt(m.open.position.Shares))
	}

	return types.NewEquityPoint(bar.Date, m.cash.InexactFloat64(), positionValue.InexactFloat64())
}

// Step evaluates one bar. Exits are checked in the order stop-loss,
// take-profit, score deterioration and finally the forced close on the last
// bar. A FLAT machine never enters on the last bar.
func (m *PositionStateMachine) Step(index int, bar types.Bar, score types.Score, last bool) Transition {
	if m.open != nil {
		reason, ok := m.exitReason(index, bar, score, last)
		if !ok {
			return Transition{Kind: TransitionNone}
		}

		trade := m.close(index, bar, reason)

		return Transition{Kind: TransitionSell, Trade: &trade}
	}

	if last || !m.passesEntryGate(score) {
		return Transition{Kind: TransitionNone}
	}

	position, ok := m.enter(index, bar, score)
	if !ok {
		return Transition{Kind: TransitionNone}
	}

	return Transition{Kind: TransitionBuy, Position: &position}
}

func (m *PositionStateMachine) exitReason(index int, bar types.Bar, score types.Score, last bool) (types.ExitReason, bool) {
	position := m.open.position
	unrealized := position.UnrealizedReturn(bar.Close)
	held := index - position.EntryIndex

	switch {
	case unrealized <= position.StopLoss:
		return types.ExitReasonStopLoss, true
	case unrealized >= position.TakeProfit:
		return types.ExitReasonTakeProfit, true
	case m.isReevaluationBar(held) && score.Valid && score.Total < m.cfg.DeteriorationScore:
		return types.ExitReasonScoreDeterioration, true
	case last:
		return types.ExitReasonForcedCloseAtEnd, true
	default:
		return "", false
	}
}

func (m *PositionStateMachine) isReevaluationBar(held int) bool {
	return held > 0 && m.cfg.RebalanceDays > 0 && held%m.cfg.RebalanceDays == 0
}

func (m *PositionStateMachine) passesEntryGate(score types.Score) bool {
	return score.Valid && score.Total >= m.cfg.EntryScore && score.Sub >= m.cfg.EntrySubScore
}

func (m *PositionStateMachine) enter(index int, bar types.Bar, score types.Score) (types.Position, bool) {
	fill := m.cost.BuyFillPrice(decimal.NewFromFloat(bar.Close))

	shares := m.cost.AffordableShares(m.cash, m.fraction, fill, m.cfg.LotSize)
	if shares == 0 {
		return types.Position{}, false
	}

	netCost, fee := m.cost.NetCost(fill, shares)
	m.cash = m.cash.Sub(netCost)

	position := types.Position{
		EntryDate:  bar.Date,
		EntryIndex: index,
		EntryPrice: fill.InexactFloat64(),
		Shares:     shares,
		EntryFee:   fee.InexactFloat64(),
		NetCost:    netCost.InexactFloat64(),
		StopLoss:   m.cfg.StopLoss,
		TakeProfit: m.cfg.TakeProfit,
		EntryScore: score,
	}

	m.open = &openPosition{
		position:  position,
		entryFill: fill,
		netCost:   netCost,
		entryFee:  fee,
	}

	return position, true
}

func (m *PositionStateMachine) close(index int, bar types.Bar, reason types.ExitReason) types.Trade {
	open := m.open
	position := open.position

	fill := m.cost.SellFillPrice(decimal.NewFromFloat(bar.Close))
	proceeds, fee, tax := m.cost.NetProceeds(fill, position.Shares)
	m.cash = m.cash.Add(proceeds)
	m.open = nil

	netProfit := proceeds.Sub(open.netCost)
	profitPct := decimal.Zero

	if open.netCost.IsPositive() {
		profitPct = netProfit.Div(open.netCost)
	}

	return types.Trade{
		EntryDate:   position.EntryDate,
		ExitDate:    bar.Date,
		EntryPrice:  position.EntryPrice,
		ExitPrice:   fill.InexactFloat64(),
		Shares:      position.Shares,
		EntryFee:    open.entryFee.InexactFloat64(),
		ExitFee:     fee.InexactFloat64(),
		ExitTax:     tax.InexactFloat64(),
		GrossProfit: fill.Sub(open.entryFill).Mul(decimal.NewFromInt(position.Shares)).InexactFloat64(),
		NetProfit:   netProfit.InexactFloat64(),
		ProfitPct:   profitPct.InexactFloat64(),
		HoldingDays: index - position.EntryIndex,
		ExitReason:  reason,
		EntryScore:  position.EntryScore.Total,
	}
}
