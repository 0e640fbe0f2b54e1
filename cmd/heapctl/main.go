// Command heapctl exercises the heapkit allocator with recorded allocation
// traces and synthetic workloads, and reports placement statistics.
package main

func main() {
	execute()
}
