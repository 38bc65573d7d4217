package workbook

// Sheet layout shared by the exporter and the importer.
const (
	EquipmentSheet = "Equipment"
	DropsSheet     = "Drops"
)

var EquipmentHeaders = []string{"Type", "Name", "Best Monster", "Best Probability", "Probability Value", "Drops"}

var DropsHeaders = []string{"Name", "Rank", "Monster", "Probability", "Denominator"}

// Column indexes (0-based) into the rows returned by excelize GetRows.
const (
	EqType = iota
	EqName
	EqBestMonster
	EqBestProbability
	EqProbabilityValue
	EqDropCount
)

const (
	DrName = iota
	DrRank
	DrMonster
	DrProbability
	DrDenominator
)

// ColName converts a 1-indexed column number: 1 -> A, 26 -> Z, 27 -> AA.
func ColName(n int) string {
	if n <= 0 {
		return ""
	}
	out := ""
	for n > 0 {
		n--
		out = string(rune('A'+(n%26))) + out
		n /= 26
	}
	return out
}
