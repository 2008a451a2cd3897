package jobspec

import (
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/mediaconvert/types"
)

const audioSelector = "Audio Selector 1"

// hlsProfile is the fixed adaptive-streaming encode: one HLS output group
// with an H.264 QVBR video stream and an AAC stereo track. Only the input
// location and the group destination vary between jobs; every call returns
// a fresh value.
func hlsProfile(input, destination string) *types.JobSettings {
	return &types.JobSettings{
		Inputs: []types.Input{
			{
				FileInput: aws.String(input),
				AudioSelectors: map[string]types.AudioSelector{
					audioSelector: {DefaultSelection: types.AudioDefaultSelection("DEFAULT")},
				},
				VideoSelector: &types.VideoSelector{},
			},
		},
		OutputGroups: []types.OutputGroup{
			{
				Name: aws.String("HLS Group"),
				OutputGroupSettings: &types.OutputGroupSettings{
					Type: types.OutputGroupType("HLS_GROUP_SETTINGS"),
					HlsGroupSettings: &types.HlsGroupSettings{
						Destination:            aws.String(destination),
						SegmentLength:          aws.Int32(6),
						MinSegmentLength:       aws.Int32(0),
						ManifestDurationFormat: types.HlsManifestDurationFormat("INTEGER"),
						OutputSelection:        types.HlsOutputSelection("MANIFESTS_AND_SEGMENTS"),
						DirectoryStructure:     types.HlsDirectoryStructure("SINGLE_DIRECTORY"),
						ManifestCompression:    types.HlsManifestCompression("NONE"),
					},
				},
				Outputs: []types.Output{
					{
						NameModifier: aws.String("_hls"),
						ContainerSettings: &types.ContainerSettings{
							Container: types.ContainerType("M3U8"),
						},
						VideoDescription: &types.VideoDescription{
							CodecSettings: &types.VideoCodecSettings{
								Codec: types.VideoCodec("H_264"),
								H264Settings: &types.H264Settings{
									RateControlMode:   types.H264RateControlMode("QVBR"),
									SceneChangeDetect: types.H264SceneChangeDetect("TRANSITION_DETECTION"),
									MaxBitrate:        aws.Int32(5000000),
									QvbrSettings: &types.H264QvbrSettings{
										QvbrQualityLevel: aws.Int32(8),
									},
									CodecProfile:                        types.H264CodecProfile("MAIN"),
									FramerateControl:                    types.H264FramerateControl("INITIALIZE_FROM_SOURCE"),
									GopSize:                             aws.Float64(90),
									GopBReference:                       types.H264GopBReference("ENABLED"),
									AdaptiveQuantization:                types.H264AdaptiveQuantization("HIGH"),
									EntropyEncoding:                     types.H264EntropyEncoding("CABAC"),
									NumberBFramesBetweenReferenceFrames: aws.Int32(2),
									InterlaceMode:                       types.H264InterlaceMode("PROGRESSIVE"),
									ParControl:                          types.H264ParControl("INITIALIZE_FROM_SOURCE"),
								},
							},
						},
						AudioDescriptions: []types.AudioDescription{
							{
								AudioSourceName: aws.String(audioSelector),
								CodecSettings: &types.AudioCodecSettings{
									Codec: types.AudioCodec("AAC"),
									AacSettings: &types.AacSettings{
										Bitrate:    aws.Int32(96000),
										CodingMode: types.AacCodingMode("CODING_MODE_2_0"),
										SampleRate: aws.Int32(48000),
									},
								},
							},
						},
					},
				},
			},
		},
	}
}
