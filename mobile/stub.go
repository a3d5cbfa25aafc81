//go:build !mobile

// 桌面构建时 mobile 包只保留导出符号，
// 绑定入口 (mobile.go) 与嵌入的帧资源 (embed.go) 需要 -tags mobile。
package mobile

// Dummy 保证包在桌面构建中也能被引用
func Dummy() {}
