// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The consent-keeper Authors

package store

// Storages bundles the four storage backends the service layer needs.
type Storages struct {
	Submissions SubmissionStorage
	Grants      GrantStorage
	Challenges  ChallengeStorage
	Bundles     BundleStorage
}
