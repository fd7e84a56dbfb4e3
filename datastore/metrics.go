// Copyright 2026 Google Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package datastore

import (
	"sync"

	"github.com/openconfig/ystore/datatree"
	"github.com/openconfig/ystore/rpcerr"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Edit results counted by ystore_edits_total.
const (
	resultCommitted = "committed"
	resultNoop      = "noop"
	resultRejected  = "rejected"
	resultTestOnly  = "test_only"
)

// stats counts edits by result and errors by tag.
type stats struct {
	mu     sync.Mutex
	edits  map[string]uint64
	errTag map[rpcerr.Tag]uint64
}

func newStats() *stats {
	return &stats{edits: map[string]uint64{}, errTag: map[rpcerr.Tag]uint64{}}
}

func (s *stats) edit(result string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.edits[result]++
}

func (s *stats) errors(errs rpcerr.List) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range errs {
		s.errTag[e.Tag]++
	}
}

// collector implements prometheus.Collector, reading the store counters on
// each scrape.
type collector struct {
	s *Store

	editsTotal  *prometheus.Desc
	errorsTotal *prometheus.Desc
	configNodes *prometheus.Desc
}

func newCollector(s *Store) *collector {
	return &collector{
		s: s,
		editsTotal: prometheus.NewDesc(
			"ystore_edits_total",
			"Total edit-config requests by result.",
			[]string{"result"}, nil,
		),
		errorsTotal: prometheus.NewDesc(
			"ystore_errors_total",
			"Total rpc-errors reported by error-tag.",
			[]string{"tag"}, nil,
		),
		configNodes: prometheus.NewDesc(
			"ystore_config_nodes",
			"Current number of configuration nodes per top-level node.",
			[]string{"root"}, nil,
		),
	}
}

func (c *collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.editsTotal
	ch <- c.errorsTotal
	ch <- c.configNodes
}

func (c *collector) Collect(ch chan<- prometheus.Metric) {
	c.s.stats.mu.Lock()
	edits := maps.Clone(c.s.stats.edits)
	tags := maps.Clone(c.s.stats.errTag)
	c.s.stats.mu.Unlock()

	results := maps.Keys(edits)
	slices.Sort(results)
	for _, r := range results {
		ch <- prometheus.MustNewConstMetric(c.editsTotal, prometheus.CounterValue, float64(edits[r]), r)
	}
	for t, n := range tags {
		ch <- prometheus.MustNewConstMetric(c.errorsTotal, prometheus.CounterValue, float64(n), string(t))
	}
	committed := c.s.snapshot()
	for _, k := range c.s.order {
		ch <- prometheus.MustNewConstMetric(c.configNodes, prometheus.GaugeValue, float64(countNodes(committed[k])), k)
	}
}

// countNodes returns the number of nodes below n.
func countNodes(n *datatree.Node) int {
	count := 0
	for _, c := range n.Children() {
		count += 1 + countNodes(c)
	}
	return count
}
