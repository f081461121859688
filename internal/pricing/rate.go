package pricing

// HourlyRate converts a monthly labor and overhead budget into a rate per hour.
// A configuration with no working hours yields 0 and a warning.
func HourlyRate(cfg LaborConfig) (float64, []Warning) {
	totalHours := cfg.HoursPerDay * cfg.DaysPerWeek * WeeksPerMonth
	if totalHours <= 0 {
		return 0, []Warning{{
			Code:    WarnZeroHours,
			Message: "labor config has no working hours; hourly rate treated as 0",
		}}
	}
	return (cfg.MonthlySalary + cfg.MonthlyFixedCosts) / totalHours, nil
}
