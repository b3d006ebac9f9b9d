//go:build debug

package assert

const isDebugBuild = true
