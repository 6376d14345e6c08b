// Package selection decides which ripped titles are episodes and in what
// order they are numbered.
//
// A run flows through four pure stages over the full candidate list:
//
//   - Classify derives a single minimum duration (the longest observed title
//     scaled by a confidence coefficient, unless the user supplies one) and
//     rejects shorter titles and titles whose probe failed.
//   - Exclusions reject titles matching manual glob patterns and cap the
//     number of survivors kept per disc directory.
//   - Sequence orders survivors disc by disc, title by title, in natural
//     order and numbers them without gaps across the whole set.
//   - Planner ties the stages to the naming package, renders destinations
//     and refuses plans in which two titles would land on the same path.
//
// Nothing here touches the filesystem; discovery and probing happen before,
// execution after.
package selection
