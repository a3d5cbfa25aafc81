package utils

import "math"

// Easing Functions (缓动函数)
//
// 所有函数接受一个进度值 t ∈ [0, 1]，返回缓动后的值 ∈ [0, 1]。
// 参考：https://easings.net/

// EaseOutCubic 三次方缓出
// 特点：开始快，结束慢（用于加载进度条的平滑推进）
// 公式：f(t) = 1 - (1-t)³
func EaseOutCubic(t float64) float64 {
	return 1 - math.Pow(1-t, 3)
}

// Lerp 线性插值
// t=0 返回 a，t=1 返回 b
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// InverseLerp 返回 v 在 [a, b] 中的相对位置
// a == b 时返回 0
func InverseLerp(a, b, v float64) float64 {
	if a == b {
		return 0
	}
	return (v - a) / (b - a)
}

// Clamp 将 v 限制在 [lo, hi] 范围内
// NaN 返回 lo
func Clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Clamp01 将 v 限制在 [0, 1] 范围内，NaN 视为 0
func Clamp01(v float64) float64 {
	return Clamp(v, 0, 1)
}
