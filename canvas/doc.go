// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package canvas provides the window-side drawing surface whose rendering
// control can be handed off to another context.
//
// A Canvas has a fixed internal pixel resolution (320x180 by default, chosen
// for a pixel-art look) and presents to larger display targets with
// nearest-neighbor scaling. Calling TransferControlToOffscreen detaches the
// surface into an Offscreen, a transferable resource that exactly one context
// owns at any time.
package canvas
