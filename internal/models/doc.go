// Sitelift - Analytics Platform Content Migration (Server to Cloud)
// Copyright 2026 R. Keene (sitelift)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sitelift/sitelift

// Package models defines the domain types shared by every sitelift
// component: content kinds, site entities as returned by the REST API,
// hierarchical locations, and schedule descriptions.
//
// Entities are identified by an opaque server-assigned id (luid).
// Ownership of referenced entities is by id; renaming or moving an
// entity does not change its identity. Optional wire fields follow the
// pointer convention so that JSON null and absent are distinguishable
// from zero values.
package models
