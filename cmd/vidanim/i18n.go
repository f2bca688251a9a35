// Package main provides localization for the vidanim CLI.
package main

import (
	"github.com/ideamans/go-l10n"
)

func init() {
	// Register Japanese translations for CLI messages.
	l10n.Register("ja", l10n.LexiconMap{
		// Flag categories
		"Logging":   "ログ",
		"Debug":     "デバッグ",
		"Encoder":   "エンコーダー",
		"Animation": "アニメーション",

		// Commands
		"Convert a video into an animated AVIF or WebP image": "動画をアニメーションAVIFまたはWebP画像に変換",
		"Encode the video as AVIF":                            "動画をAVIFとしてエンコード",
		"Encode the video as WebP":                            "動画をWebPとしてエンコード",

		// Global flags
		"YAML configuration file":                     "YAML設定ファイル",
		"Log level (debug, info, warn, error)":        "ログレベル（debug, info, warn, error）",
		"Suppress all log output":                     "全てのログ出力を抑制",
		"Hide the progress bar":                       "プログレスバーを表示しない",
		"Frames buffered between decoder and encoder": "デコーダーとエンコーダーの間にバッファするフレーム数",
		"Directory for debug output":                  "デバッグ出力のディレクトリ",
		"Number of frames saved as debug snapshots":   "デバッグスナップショットとして保存するフレーム数",

		// AVIF flags
		"AV1 codec (auto, aom, dav1d, libgav1, rav1e, svt)": "AV1コーデック（auto, aom, dav1d, libgav1, rav1e, svt）",
		"Maximum encoder threads (0 = number of CPUs)":      "エンコーダーの最大スレッド数（0 = CPU数）",
		"Color quantizer (0-63, 0 is lossless)":             "色の量子化パラメータ（0-63、0 は可逆）",
		"Alpha quantizer (0-63, 0 is lossless)":             "アルファの量子化パラメータ（0-63、0 は可逆）",
		"Encoder speed (0-10, 10 is fastest)":               "エンコード速度（0-10、10 が最速）",

		// WebP flags
		"Preset (default, picture, photo, drawing, icon, text)":         "プリセット（default, picture, photo, drawing, icon, text）",
		"Lossless encoding (true, false)":                               "可逆圧縮（true, false）",
		"Quality (0-100)":                                               "品質（0-100）",
		"Quality/speed trade-off (0-6, 6 is slowest)":                   "品質と速度のバランス（0-6、6 が最も遅い）",
		"Image hint (default, picture, photo, graph)":                   "画像ヒント（default, picture, photo, graph）",
		"Target size in bytes":                                          "目標サイズ（バイト）",
		"Target PSNR in dB":                                             "目標PSNR（dB）",
		"Number of segments (1-4)":                                      "セグメント数（1-4）",
		"Spatial noise shaping strength (0-100)":                        "空間ノイズシェーピングの強さ（0-100）",
		"Filter strength (0-100)":                                       "フィルターの強さ（0-100）",
		"Filter sharpness (0-7)":                                        "フィルターのシャープネス（0-7）",
		"Use the strong filter (true, false)":                           "強いフィルターを使用（true, false）",
		"Auto-adjust filter strength (true, false)":                     "フィルターの強さを自動調整（true, false）",
		"Compress the alpha plane (true, false)":                        "アルファプレーンを圧縮（true, false）",
		"Alpha filtering (none, fast, best)":                            "アルファフィルタリング（none, fast, best）",
		"Alpha quality (0-100)":                                         "アルファ品質（0-100）",
		"Entropy analysis passes (1-10)":                                "エントロピー解析のパス数（1-10）",
		"Export the compressed picture (true, false)":                   "圧縮後の画像を出力（true, false）",
		"Preprocessing (none, segment-smooth, pseudo-random-dithering)": "前処理（none, segment-smooth, pseudo-random-dithering）",
		"log2 of token partitions (0-3)":                                "トークンパーティション数の log2（0-3）",
		"Quality degradation allowed to fit partitions (0-100)":         "パーティションに収めるための品質低下の許容量（0-100）",
		"Match the size of a JPEG of the same quality (true, false)":    "同品質のJPEGのサイズに合わせる（true, false）",
		"Use multi-threading (true, false)":                             "マルチスレッドを使用（true, false）",
		"Reduce memory usage (true, false)":                             "メモリ使用量を削減（true, false）",
		"Near-lossless preprocessing (0-100, 100 is off)":               "ニアロスレス前処理（0-100、100 は無効）",
		"Keep RGB under transparent areas (true, false)":                "透明部分のRGBを保持（true, false）",
		"Use the delta palette (true, false)":                           "デルタパレットを使用（true, false）",
		"Use sharp RGB to YUV conversion (true, false)":                 "シャープなRGB→YUV変換を使用（true, false）",
		"Minimize output size, slow (true, false)":                      "出力サイズを最小化、低速（true, false）",
		"Key frame distance (disabled, all-frames, min..max)":           "キーフレーム間隔（disabled, all-frames, min..max）",
		"Mix lossy and lossless frames (true, false)":                   "非可逆と可逆のフレームを混在（true, false）",
		"Background color (#RRGGBB or #AARRGGBB)":                       "背景色（#RRGGBB または #AARRGGBB）",
		"Loop count (0 = infinite)":                                     "ループ回数（0 = 無限）",

		// Summary output
		"Output execution summary to file (Markdown format, - for stdout)": "実行サマリーをファイルに出力（Markdown形式、- で標準出力）",
		"Summary saved to %s":         "サマリーを %s に保存しました",
		"Failed to write summary: %s": "サマリーの書き込みに失敗しました: %s",

		// Summary content
		"Transcode Summary": "変換サマリー",
		"Generated":         "生成日時",
		"Results":           "実行結果",
		"Input":             "入力",
		"Settings":          "設定",
		"Item":              "項目",
		"Value":             "値",
		"None":              "なし",
		"Status":            "状態",
		"Succeeded":         "成功",
		"Failed":            "失敗",
		"Output":            "出力",
		"Format":            "形式",
		"File Size":         "ファイルサイズ",
		"Encoder Stats":     "エンコーダー統計",
		"Decoder":           "デコーダー",
		"File":              "ファイル",
		"Codec":             "コーデック",
		"Dimensions":        "サイズ",
		"Pixel Format":      "ピクセルフォーマット",
		"Time Base":         "タイムベース",
		"Frame Rate":        "フレームレート",
		"Frame Count":       "フレーム数",
		"Duration":          "再生時間",
		"still":             "静止画",
		"animation":         "アニメーション",
		"Generated by":      "生成:",

		// Runtime messages
		"Encoding":                  "エンコード中",
		"Transcoding %s to %s":      "%s を %s に変換中",
		"expected <input> [output]": "<input> [output] を指定してください",
	})
}
