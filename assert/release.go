//go:build !debug

package assert

const isDebugBuild = false
