// Package main provides the Axon CLI.
package main

import (
	"flag"
	"fmt"
	"os"

	"k8s.io/klog/v2"

	"github.com/axonml/axon/backend/webgpu"
)

const version = "v0.0.1-dev"

func main() {
	klog.InitFlags(nil)
	flag.Parse()

	switch flag.Arg(0) {
	case "version":
		fmt.Printf("Axon %s\n", version)
	case "devices":
		listDevices()
	case "":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", flag.Arg(0))
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("Axon - device kernels for distributed deep learning")
	fmt.Printf("Version: %s\n\n", version)
	fmt.Println("Commands:")
	fmt.Println("  version    Show version")
	fmt.Println("  devices    List available compute devices")
}

func listDevices() {
	fmt.Println("CPU: available")

	if !webgpu.IsAvailable() {
		fmt.Println("WebGPU: not available")
		return
	}

	gpu, err := webgpu.New()
	if err != nil {
		fmt.Printf("WebGPU: initialization failed: %v\n", err)
		return
	}
	defer gpu.Release()

	fmt.Printf("WebGPU: %s\n", gpu.Name())
}
