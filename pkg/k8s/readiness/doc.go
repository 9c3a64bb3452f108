// Package readiness waits until every node of a cluster reports Ready.
//
// The wait polls a [NodeStatusSource] on a fixed interval. By default it never
// gives up; [Options] can bound it by wall-clock time or by number of polls.
// A failing status query ends the wait at once.
package readiness
