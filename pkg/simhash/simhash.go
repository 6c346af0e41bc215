package simhash

import (
	"fmt"
	"math/bits"
)

// Distance 计算两个感知指纹之间的汉明距离（相异比特数）。
// - 指纹是等长的定宽字符串，每个字符是一个十六进制位；
//   逐字符把两边解析成 4 位数值后异或并统计置位数。
//   对 "0"/"1" 组成的比特串，该算法退化为相异字符计数，两种存法兼容。
// - 长度不一致或含非法字符时返回错误，调用方应将该候选排除而不是中断检索。
func Distance(a, b string) (int, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("指纹长度不一致: %d != %d", len(a), len(b))
	}

	distance := 0
	for i := 0; i < len(a); i++ {
		na, err := nibble(a[i])
		if err != nil {
			return 0, err
		}
		nb, err := nibble(b[i])
		if err != nil {
			return 0, err
		}
		distance += bits.OnesCount8(na ^ nb)
	}
	return distance, nil
}

// nibble 把单个十六进制字符解析成 4 位数值。
func nibble(c byte) (uint8, error) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', nil
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, nil
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, nil
	default:
		return 0, fmt.Errorf("指纹含非法字符: %q", c)
	}
}
