// Package fairness 基尼系数计算与解读
package fairness

import (
	"math"
	"sort"
)

// Band 基尼系数解读区间
type Band string

const (
	BandExcellent Band = "excellent" // [0, 0.2)
	BandGood      Band = "good"      // [0.2, 0.3)
	BandModerate  Band = "moderate"  // [0.3, 0.4)
	BandHigh      Band = "high"      // [0.4, 0.5)
	BandVeryHigh  Band = "very_high" // ≥ 0.5
)

// Gini 计算分布的基尼系数，结果截断到 [0, 1] 并保留 4 位小数
// 空输入或总和为 0 时返回 0
func Gini(values []float64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	var sum, weighted float64
	for i, v := range sorted {
		sum += v
		weighted += float64(i+1) * v
	}
	if sum == 0 {
		return 0
	}

	g := (2*weighted)/(float64(n)*sum) - float64(n+1)/float64(n)
	return Round4(math.Max(0, math.Min(1, g)))
}

// GiniInts 整数版本
func GiniInts(values []int) float64 {
	f := make([]float64, len(values))
	for i, v := range values {
		f[i] = float64(v)
	}
	return Gini(f)
}

// Round4 保留 4 位小数
func Round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}

// Interpret 返回基尼系数所在解读区间
func Interpret(g float64) Band {
	switch {
	case g < 0.2:
		return BandExcellent
	case g < 0.3:
		return BandGood
	case g < 0.4:
		return BandModerate
	case g < 0.5:
		return BandHigh
	default:
		return BandVeryHigh
	}
}

// Metrics 三项公平性指标
type Metrics struct {
	Workload  float64 `json:"gini_workload"`
	RoomUsage float64 `json:"gini_room_usage"`
	ACAccess  float64 `json:"gini_ac_access"`
}

// Average 三项均值
func (m Metrics) Average() float64 {
	return Round4((m.Workload + m.RoomUsage + m.ACAccess) / 3)
}

// Bands 各项解读
func (m Metrics) Bands() map[string]Band {
	return map[string]Band{
		"workload":   Interpret(m.Workload),
		"room_usage": Interpret(m.RoomUsage),
		"ac_access":  Interpret(m.ACAccess),
		"average":    Interpret(m.Average()),
	}
}

// Assignment 一次课时分配，用于从现有课表计算指标
type Assignment struct {
	ProfessorID int64
	Room        string
	Hours       int
	NeedsAC     bool
}

// Compute 计算课时分配的三项指标
//
//   - 教学负荷：各教授课时数
//   - 教室使用：各教室课程数
//   - 空调可及：需要空调的教授在空调教室的课时数
func Compute(assignments []Assignment, isACRoom func(room string) bool) Metrics {
	hours := make(map[int64]int)
	rooms := make(map[string]int)
	ac := make(map[int64]int)

	for _, a := range assignments {
		hours[a.ProfessorID] += a.Hours
		rooms[a.Room]++
		if a.NeedsAC && isACRoom != nil && isACRoom(a.Room) {
			ac[a.ProfessorID] += a.Hours
		}
	}

	return Metrics{
		Workload:  GiniInts(intValues(hours)),
		RoomUsage: GiniInts(intValues(rooms)),
		ACAccess:  GiniInts(intValues(ac)),
	}
}

func intValues[K comparable](m map[K]int) []int {
	out := make([]int, 0, len(m))
	for _, v := range m {
		out = append(out, v)
	}
	return out
}
