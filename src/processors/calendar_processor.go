package processors

import (
	"github.com/username/tradefolio/src/models"
	"github.com/username/tradefolio/src/utils"
)

const weeksPerMonthView = 6

// BuildMonthView buckets trades into a fixed 6-week month grid. It is pure
// and deterministic: the same trades and target month always produce the
// same buckets, and no clock is consulted.
//
// Day buckets cover days 1..daysInMonth and match trades by exact ISO date
// string. Week buckets span nominal 7-day ranges derived from the weekday
// of the 1st; the first week's start may fall in the previous month and is
// deliberately not clamped, so trades from the previous month's tail days
// count toward week 1. Weeks whose nominal start falls past the end of the
// month come out empty.
func BuildMonthView(trades []models.Trade, year, monthIndex int) models.MonthView {
	firstWeekday := utils.FirstWeekday(year, monthIndex)
	daysInMonth := utils.DaysInMonth(year, monthIndex)

	tradesByDate := make(map[string][]models.Trade)
	for _, t := range trades {
		tradesByDate[t.Date] = append(tradesByDate[t.Date], t)
	}

	dayBuckets := make([]models.DayBucket, 0, daysInMonth)
	for day := 1; day <= daysInMonth; day++ {
		iso := utils.ISODate(year, monthIndex, day)
		dayTrades := tradesByDate[iso]
		pnl, count, winRate := bucketStats(dayTrades)
		dayBuckets = append(dayBuckets, models.DayBucket{
			Date:       iso,
			Trades:     dayTrades,
			TotalPnL:   pnl,
			TradeCount: count,
			WinRate:    winRate,
		})
	}

	weekBuckets := make([]models.WeekBucket, 0, weeksPerMonthView)
	for week := 0; week < weeksPerMonthView; week++ {
		startDay := 1 + week*7 - firstWeekday
		endDay := utils.MinInt(1+(week+1)*7-firstWeekday-1, daysInMonth)
		start := utils.MonthDate(year, monthIndex, startDay)
		end := utils.MonthDate(year, monthIndex, endDay)

		var weekTrades []models.Trade
		for _, t := range trades {
			d, err := utils.ParseISODate(t.Date)
			if err != nil {
				continue
			}
			if !d.Before(start) && !d.After(end) {
				weekTrades = append(weekTrades, t)
			}
		}

		pnl, count, winRate := bucketStats(weekTrades)
		weekBuckets = append(weekBuckets, models.WeekBucket{
			WeekIndex:  week,
			StartDate:  start.Format(utils.ISODateFormat),
			EndDate:    end.Format(utils.ISODateFormat),
			Trades:     weekTrades,
			TotalPnL:   pnl,
			TradeCount: count,
			WinRate:    winRate,
		})
	}

	return models.MonthView{
		Year:        year,
		MonthIndex:  monthIndex,
		DayBuckets:  dayBuckets,
		WeekBuckets: weekBuckets,
	}
}

// bucketStats derives the aggregate numbers for one bucket. Trades without
// a recorded P&L count toward TradeCount but not toward the win rate;
// WinRate is nil when no trade in the bucket has a P&L at all.
func bucketStats(trades []models.Trade) (totalPnL float64, tradeCount int, winRate *int) {
	tradeCount = len(trades)

	valid := 0
	winning := 0
	for _, t := range trades {
		if t.ProfitLoss == nil {
			continue
		}
		totalPnL += *t.ProfitLoss
		valid++
		if *t.ProfitLoss > 0 {
			winning++
		}
	}

	if valid > 0 {
		rate := utils.RoundToInt(float64(winning) / float64(valid) * 100)
		winRate = &rate
	}
	return totalPnL, tradeCount, winRate
}
