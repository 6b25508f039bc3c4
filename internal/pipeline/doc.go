// Package pipeline runs the phases of a crawl as an ordered list of steps.
//
// A crawl is processed through the stages search, collect and library,
// followed by report output and history recording. Each stage is a Step
// that receives the shared Run and may update it. The pipeline logs every
// step, honours context cancellation between steps and records the first
// error on the Run so that later reporting steps can describe it.
package pipeline
