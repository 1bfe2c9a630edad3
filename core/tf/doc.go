// Package tf holds the closed in-game value types shared by the rest of the
// module: lobby teams, in-game teams, player classes, and the team-share
// classification used to decide whether two players are allies or enemies.
package tf
