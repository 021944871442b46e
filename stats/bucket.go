package stats

import "math"

// RatioBuckets
//
// 用來定位虛無分布樣本 -> 直方圖位置。
// 桶邊界以「|統計量| 相對 |觀測統計量| 的比值」定義，
// 因此同一組桶適用於任何量綱的輸入資料。
//
// 請勿修改預設值
//   - ratio 區間: [0,0.25), [0.25,0.50), ..., [1.50,2.00), [2.00,+inf)
//   - [1.00,+inf) 之後的桶即「極端」區（兩側檢定，含平手）。
type RatioBuckets struct {
	edges  []float64
	labels []string
}

// Buckets 為全庫共用的預設分桶。
var Buckets = &RatioBuckets{
	edges: []float64{0.25, 0.50, 0.75, 1.00, 1.50, 2.00},
	labels: []string{
		"[0.00,0.25)", "[0.25,0.50)", "[0.50,0.75)", "[0.75,1.00)",
		"[1.00,1.50)", "[1.50,2.00)", "[2.00,+inf)",
	},
}

// Labels 回傳桶標籤，長度 = len(edges)+1。
func (b *RatioBuckets) Labels() []string {
	return b.labels
}

// Len 回傳桶數。
func (b *RatioBuckets) Len() int {
	return len(b.labels)
}

// Index 回傳 |stat| 相對門檻 threshold（= |觀測統計量|）應落入的桶。
//
// threshold == 0 為退化情境（兩組均值完全相等）：任何試驗都「至少一樣極端」，
// 全部歸入最末桶。桶數固定且很小，線性掃描即可（不像整數贏分需要 LUT）。
func (b *RatioBuckets) Index(stat, threshold float64) int {
	if threshold <= 0 {
		return len(b.labels) - 1
	}
	ratio := math.Abs(stat) / threshold
	for i, e := range b.edges {
		if ratio < e {
			return i
		}
	}
	return len(b.labels) - 1
}
