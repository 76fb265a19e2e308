package app

import "evbus/pkg/types"

func typesOverlay(uiID int, asset, content string) types.OverlayRequest {
	return types.OverlayRequest{UIID: uiID, Asset: asset, Content: content}
}
