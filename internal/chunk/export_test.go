package chunk

// Test-only exports for internal constants.
const LookaheadSlack = lookaheadSlack
